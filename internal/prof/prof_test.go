package prof

import (
	"testing"

	"github.com/spf13/afero"
)

func TestHeapProfileWrittenOnStop(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := Start(fs, Options{Mem: "/mem.pprof"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	info, err := fs.Stat("/mem.pprof")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("heap profile is empty")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestEmptyOptions(t *testing.T) {
	if (Options{}).Enabled() {
		t.Fatalf("zero options should be disabled")
	}
	fs := afero.NewMemMapFs()
	s, err := Start(fs, Options{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	var nilSession *Session
	if err := nilSession.Stop(); err != nil {
		t.Fatalf("nil Stop: %v", err)
	}
}

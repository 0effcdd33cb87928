package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	files := tm.Begin(PhaseResolveFiles)
	tm.End(files, "config")
	fix := tm.Begin(PhaseFix)
	tm.End(fix, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != PhaseResolveFiles || report.Phases[0].Note != "config" {
		t.Fatalf("first phase = %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS != 2 || report.TotalMS != 4 {
		t.Fatalf("durations = %+v", report)
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "resolve-files", "// config", "total"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTimerIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("expected no phases")
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin(PhaseFix)
	tm.End(idx, "")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("nil timer report = %+v", got)
	}
}

func TestPhaseNamesAreDistinct(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	names := []string{PhaseResolveFiles, PhaseResolveFixers, PhaseFix, PhaseWriteReport}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			t.Fatalf("duplicate phase name %q", name)
		}
		seen[name] = true
		tm.End(tm.Begin(name), "")
	}
	phases := tm.Report().Phases
	if len(phases) != len(names) || phases[3].Name != "report" {
		t.Fatalf("phases = %+v", phases)
	}
}

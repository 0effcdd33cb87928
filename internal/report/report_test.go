package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"csfix/internal/engine"
)

func TestTextIndexesFromZero(t *testing.T) {
	var buf bytes.Buffer
	changes := []engine.FileChange{{Path: "a.php"}, {Path: "b.php"}}
	if err := Text(&buf, changes, false); err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "   0) a.php\n   1) b.php\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestTextWideIndexes(t *testing.T) {
	changes := make([]engine.FileChange, 12000)
	for i := range changes {
		changes[i].Path = "f.php"
	}
	var buf bytes.Buffer
	if err := Text(&buf, changes, false); err != nil {
		t.Fatalf("Text: %v", err)
	}
	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	if len(lines) != 12000 {
		t.Fatalf("lines = %d", len(lines))
	}
	if got := string(lines[11999]); got != "11999) f.php" {
		t.Fatalf("last line = %q", got)
	}
}

func TestTextVerbose(t *testing.T) {
	var buf bytes.Buffer
	changes := []engine.FileChange{{Path: "a.php", Applied: []string{"linefeed", "short_tag"}}, {Path: "b.php"}}
	if err := Text(&buf, changes, true); err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "   0) a.php (linefeed, short_tag)\n   1) b.php\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, nil, false); err != nil || buf.Len() != 0 {
		t.Fatalf("Text(nil) = %q, %v", buf.String(), err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTextPropagatesWriteErrors(t *testing.T) {
	if err := Text(failingWriter{}, []engine.FileChange{{Path: "a.php"}}, false); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	changes := []engine.FileChange{{Path: "a.php", Applied: []string{"linefeed"}}, {Path: "b.php"}}
	if err := Write(&buf, FormatJSON, changes, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var decoded jsonReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Files) != 2 || decoded.Files[0].Name != "a.php" || decoded.Files[1].AppliedFixers == nil {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "txt": FormatText, "JSON": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

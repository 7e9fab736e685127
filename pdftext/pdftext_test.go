package pdftext

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractMissingFile(t *testing.T) {
	e := New()
	if _, err := e.Extract(filepath.Join(t.TempDir(), "ghost.pdf")); err == nil {
		t.Fatal("missing file yielded no error")
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	e := New()
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Failures are never cached; each call re-attempts and fails again.
	for i := 0; i < 2; i++ {
		if _, err := e.Extract(path); err == nil {
			t.Fatal("non-pdf content yielded no error")
		}
	}
}

func TestExtractSurvivesTruncatedHeader(t *testing.T) {
	// A file that starts like a PDF but ends abruptly exercises the
	// parser's panic path; Extract must turn that into an error.
	e := New()
	path := filepath.Join(t.TempDir(), "torn.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n1 0 obj\n<<"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Extract(path); err == nil {
		t.Fatal("truncated pdf yielded no error")
	}
}

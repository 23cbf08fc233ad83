package localfs

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorageSaveReturnsStagingPath(t *testing.T) {
	base := t.TempDir()
	s, err := New(base)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path, err := s.Save(context.Background(), "doc-1.pdf", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(base, "_uploads", "doc-1.pdf") {
		t.Fatalf("unexpected path %s", path)
	}

	rc, err := s.Open(context.Background(), "doc-1.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "payload" {
		t.Fatalf("round trip mismatch: %q", data)
	}
}

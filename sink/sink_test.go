package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "simple", path: "report.json"},
		{name: "nested", path: "users/report.txt"},
		{name: "empty", path: "", wantErr: "empty"},
		{name: "absolute", path: "/tmp/report.json", wantErr: "absolute paths not allowed"},
		{name: "drive letter", path: "C:report.json", wantErr: "absolute paths not allowed"},
		{name: "traversal", path: "a/../b.json", wantErr: "path traversal not allowed"},
		{name: "leading traversal", path: "../b.json", wantErr: "path traversal not allowed"},
		{name: "dot prefix", path: "./report.json", wantErr: "not clean"},
		{name: "double slash", path: "a//b.json", wantErr: "not clean"},
		{name: "trailing slash", path: "a/b/", wantErr: "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePath(%q) = %v, want error containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()

	content := []byte(`{"operations":[]}`)
	if err := s.WriteFile(ctx, "report.json", content); err != nil {
		t.Fatal(err)
	}
	content[0] = 'X'
	if got := s.Get("report.json"); string(got) != `{"operations":[]}` {
		t.Errorf("stored content changed with caller buffer: %q", got)
	}

	files := s.Files()
	files["report.json"][0] = 'Y'
	if got := s.Get("report.json"); got[0] != '{' {
		t.Errorf("Files() did not return a copy")
	}
	if s.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}

	s.Reset()
	if len(s.Files()) != 0 {
		t.Error("Reset did not clear files")
	}

	if err := s.WriteFile(ctx, "../escape", nil); err == nil {
		t.Error("expected invalid path error")
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.WriteFile(cancelled, "report.json", nil); err != context.Canceled {
		t.Errorf("WriteFile with cancelled context = %v", err)
	}
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("ops/op%d.json", i)
			if err := s.WriteFile(context.Background(), path, []byte(path)); err != nil {
				t.Error(err)
			}
			_ = s.Get(path)
		}(i)
	}
	wg.Wait()
	if got := len(s.Files()); got != 50 {
		t.Errorf("got %d files, want 50", got)
	}
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()

	t.Run("writes and creates directories", func(t *testing.T) {
		root := t.TempDir()
		s := NewFilesystemSink(root)
		if err := s.WriteFile(ctx, "reports/users/report.txt", []byte("ok")); err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(filepath.Join(root, "reports", "users", "report.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "ok" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("applies mode", func(t *testing.T) {
		root := t.TempDir()
		s := &FilesystemSink{Root: root, Mode: 0600, Overwrite: true}
		if err := s.WriteFile(ctx, "report.json", []byte("{}")); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(filepath.Join(root, "report.json"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("overwrites by default", func(t *testing.T) {
		root := t.TempDir()
		s := NewFilesystemSink(root)
		for _, content := range []string{"first", "second"} {
			if err := s.WriteFile(ctx, "report.txt", []byte(content)); err != nil {
				t.Fatal(err)
			}
		}
		got, _ := os.ReadFile(filepath.Join(root, "report.txt"))
		if string(got) != "second" {
			t.Errorf("content = %q, want second", got)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		root := t.TempDir()
		s := &FilesystemSink{Root: root}
		if err := s.WriteFile(ctx, "report.txt", []byte("first")); err != nil {
			t.Fatal(err)
		}
		err := s.WriteFile(ctx, "report.txt", []byte("second"))
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("second write = %v, want already exists", err)
		}
		got, _ := os.ReadFile(filepath.Join(root, "report.txt"))
		if string(got) != "first" {
			t.Errorf("content = %q, want first", got)
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		root := t.TempDir()
		s := NewFilesystemSink(root)
		if err := s.WriteFile(ctx, "report.txt", []byte("x")); err != nil {
			t.Fatal(err)
		}
		matches, _ := filepath.Glob(filepath.Join(root, ".tyflow-*.tmp"))
		if len(matches) != 0 {
			t.Errorf("temp files left behind: %v", matches)
		}
	})

	t.Run("rejects invalid paths", func(t *testing.T) {
		s := NewFilesystemSink(t.TempDir())
		if err := s.WriteFile(ctx, "/etc/passwd", nil); err == nil {
			t.Error("expected error for absolute path")
		}
	})
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)
	ctx := context.Background()
	if err := s.WriteFile(ctx, "report.txt", []byte("one\n")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "report.json", []byte("two\n")); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "one\ntwo\n" {
		t.Errorf("output = %q", got)
	}
	if err := s.WriteFile(ctx, "", nil); err == nil {
		t.Error("expected error for empty path")
	}
}

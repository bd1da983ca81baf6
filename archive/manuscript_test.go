package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeZip(t *testing.T, files [][2]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, f := range files {
		fw, err := w.Create(f[0])
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", f[0], err)
		}
		if _, err := fw.Write([]byte(f[1])); err != nil {
			t.Fatalf("Failed to write content for %s: %v", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	zipFile.Close()
	return zipPath
}

func TestFind(t *testing.T) {
	zipPath := makeZip(t, [][2]string{
		{"readme.md", "readme"},
		{"books/a/notes.dat", "notes"},
		{"books/a/novel.TXT", "第一章 开始"},
		{"books/b/other.txt", "other"},
	})

	tests := []struct {
		name  string
		inner string
		want  string
		data  string
	}{
		{"first text in archive", "", "books/a/novel.TXT", "第一章 开始"},
		{"prefix", "books/b", "books/b/other.txt", "other"},
		{"exact file any extension", "books/a/notes.dat", "books/a/notes.dat", "notes"},
		{"windows separators", `books\b\other.txt`, "books/b/other.txt", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Find(zipPath, tt.inner, 0)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if e.Name != tt.want || string(e.Data) != tt.data || e.Archive != zipPath {
				t.Errorf("Find() = %s %q, want %s %q", e.Name, e.Data, tt.want, tt.data)
			}
		})
	}

	if _, err := Find(zipPath, "missing/", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := Find(zipPath, "books/a/novel.TXT", 3); err == nil {
		t.Errorf("expected size limit error")
	}
}

func TestFind_UnsafePath(t *testing.T) {
	zipPath := makeZip(t, [][2]string{
		{"../evil.txt", "x"},
	})
	if _, err := Find(zipPath, "", 0); err == nil {
		t.Fatal("expected error for unsafe entry")
	}
}

func TestFind_InvalidArchive(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.zip")
	if err := os.WriteFile(bad, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Find(bad, "", 0); err == nil {
		t.Error("expected error for invalid archive")
	}
	if _, err := Find(filepath.Join(t.TempDir(), "none.zip"), "", 0); err == nil {
		t.Error("expected error for missing archive")
	}
}

func TestIsZip(t *testing.T) {
	zipPath := makeZip(t, [][2]string{{"a.txt", "a"}})
	if ok, err := IsZip(zipPath); err != nil || !ok {
		t.Errorf("IsZip(zip) = %v, %v", ok, err)
	}
	txt := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsZip(txt); err != nil || ok {
		t.Errorf("IsZip(txt) = %v, %v", ok, err)
	}
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsZip(empty); err != nil || ok {
		t.Errorf("IsZip(empty) = %v, %v", ok, err)
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a/b.txt", true},
		{"a..b/c.txt", true},
		{"/etc/passwd", false},
		{`\windows\x`, false},
		{"a/../../b", false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

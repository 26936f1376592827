package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"printer.json":               "{}",
		"user/default/filament.json": "pla",
		"user/default/process/a.ini": "a",
	})
	if err := os.MkdirAll(filepath.Join(src, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "new", "config")
	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	for rel, want := range map[string]string{
		"printer.json":               "{}",
		"user/default/filament.json": "pla",
		"user/default/process/a.ini": "a",
	} {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("reading %s: %v", rel, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", rel, got, want)
		}
	}
	if info, err := os.Stat(filepath.Join(dst, "empty")); err != nil || !info.IsDir() {
		t.Errorf("empty directory not copied: %v", err)
	}
}

func TestCopyTree_MissingSource(t *testing.T) {
	if err := CopyTree(filepath.Join(t.TempDir(), "missing"), t.TempDir()); err == nil {
		t.Error("CopyTree() expected error for missing source")
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "1", "b/c": "2", ".hidden": "3"})

	if err := ClearDir(dir); err != nil {
		t.Fatalf("ClearDir() error = %v", err)
	}

	empty, err := IsEmptyDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !empty {
		t.Error("directory not empty after ClearDir")
	}
}

func TestClearDir_CreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh", "OrcaSlicer")

	if err := ClearDir(dir); err != nil {
		t.Fatalf("ClearDir() error = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestIsEmptyDir(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsEmptyDir(dir)
	if err != nil || !empty {
		t.Errorf("IsEmptyDir(empty) = %v, %v", empty, err)
	}

	writeFiles(t, dir, map[string]string{"x": ""})
	empty, err = IsEmptyDir(dir)
	if err != nil || empty {
		t.Errorf("IsEmptyDir(non-empty) = %v, %v", empty, err)
	}

	if _, err := IsEmptyDir(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Errorf("IsEmptyDir(missing) error = %v, want not-exist", err)
	}
}

package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolve_ExplicitWins(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "explicit.csv")
	current := filepath.Join(dir, "current_dataset.csv")
	writeFile(t, explicit, "a\n1\n")
	writeFile(t, current, "a\n2\n")

	got, err := Resolve(explicit, current, filepath.Join(dir, "default.csv"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != explicit {
		t.Fatalf("expected explicit path %s, got %s", explicit, got)
	}
}

func TestResolve_ExplicitMissingDoesNotFallThrough(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "current_dataset.csv")
	writeFile(t, current, "a\n2\n")

	_, err := Resolve(filepath.Join(dir, "nope.csv"), current, "")
	if err == nil {
		t.Fatal("expected error for missing explicit path")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestResolve_CurrentBeforeDefault(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "current_dataset.csv")
	fallback := filepath.Join(dir, "default.csv")
	writeFile(t, current, "a\n1\n")
	writeFile(t, fallback, "a\n2\n")

	got, err := Resolve("", current, fallback)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != current {
		t.Fatalf("expected current path %s, got %s", current, got)
	}
}

func TestResolve_DefaultFallback(t *testing.T) {
	dir := t.TempDir()
	fallback := filepath.Join(dir, "default.csv")
	writeFile(t, fallback, "a\n2\n")

	got, err := Resolve("", filepath.Join(dir, "current_dataset.csv"), fallback)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != fallback {
		t.Fatalf("expected fallback path %s, got %s", fallback, got)
	}
}

func TestResolve_NothingExists(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve("", filepath.Join(dir, "current.csv"), filepath.Join(dir, "default.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

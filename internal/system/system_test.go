package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestProject(t *testing.T) {
	dir := t.TempDir()

	files := []string{"dega_2026-02-11.yaml", "dega_2026-02-13.YML", "notes.txt", "dega_2026-02-12.yaml"}
	for i, f := range files {
		path := filepath.Join(dir, f)
		if err := os.WriteFile(path, []byte("name: test\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(path, modTime, modTime)
	}
	os.Mkdir(filepath.Join(dir, "archive.yaml"), 0755)

	latest, err := FindLatestProject(dir)
	if err != nil {
		t.Fatalf("FindLatestProject failed: %v", err)
	}
	t.Logf("Latest project: %s", latest)

	want := filepath.Join(dir, "dega_2026-02-12.yaml")
	if latest != want {
		t.Errorf("Expected %s, got %s", want, latest)
	}
}

func TestFindLatestProjectEmpty(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0644)

	if _, err := FindLatestProject(dir); err == nil {
		t.Error("Expected error for directory without project files")
	}
	if _, err := FindLatestProject(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestProcessStats(t *testing.T) {
	s, err := ProcessStats()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	if s.RSS == 0 {
		t.Error("Expected non-zero RSS")
	}
	t.Logf("RSS: %s, threads: %d", HumanBytes(s.RSS), s.Threads)
}

func TestHumanBytes(t *testing.T) {
	if got := HumanBytes(3 << 20); got != "3.0 MiB" {
		t.Errorf("HumanBytes = %s", got)
	}
}

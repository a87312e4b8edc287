package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/fable/internal/store"
)

func setupTestStore(t *testing.T) *store.Manager {
	t.Helper()
	m, err := store.OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not really audio"), 0o600); err != nil {
		t.Fatal(err)
	}
}

// drainProgress consumes a progress channel until it closes.
func drainProgress(progress <-chan ScanProgress) chan struct{} {
	done := make(chan struct{})
	go func() {
		for range progress {
		}
		close(done)
	}()
	return done
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dune.mp3"))
	writeFile(t, filepath.Join(dir, "cover.jpg"))
	writeFile(t, filepath.Join(dir, "herbert", "messiah.flac"))
	writeFile(t, filepath.Join(dir, "notes.txt"))

	progress := make(chan ScanProgress, 1)
	files := discoverFiles([]string{dir}, progress)

	if len(files) != 2 {
		t.Fatalf("discovered %d files, want 2: %v", len(files), files)
	}
}

func TestDiscoverFiles_MissingFolder(t *testing.T) {
	progress := make(chan ScanProgress, 1)
	files := discoverFiles([]string{"/nonexistent/library"}, progress)

	if len(files) != 0 {
		t.Errorf("discovered %d files in missing folder, want 0", len(files))
	}
}

func TestScan_SkipsKnownFiles(t *testing.T) {
	m := setupTestStore(t)
	dir := t.TempDir()

	knownPath := filepath.Join(dir, "dune.mp3")
	newPath := filepath.Join(dir, "ubik.mp3")
	writeFile(t, knownPath)
	writeFile(t, newPath)

	if _, err := m.Create(store.CreateParams{
		Path:     knownPath,
		Name:     "Dune",
		Duration: time.Hour,
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	progress := make(chan ScanProgress, 16)
	done := drainProgress(progress)

	report, err := New(m).Scan([]string{dir}, progress)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	<-done

	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}
	// The new file is not decodable audio, so it lands in Failed rather
	// than Added. Either way it must not clobber the known title.
	if len(report.Added) != 0 {
		t.Errorf("Added = %v, want none", report.Added)
	}
	if len(report.Failed) != 1 || report.Failed[0] != newPath {
		t.Errorf("Failed = %v, want [%s]", report.Failed, newPath)
	}

	title, err := m.GetByPath(knownPath)
	if err != nil {
		t.Fatalf("GetByPath() error: %v", err)
	}
	if title.Name != "Dune" {
		t.Errorf("known title Name = %q, want untouched %q", title.Name, "Dune")
	}
}

func TestScan_EmptyFolder(t *testing.T) {
	m := setupTestStore(t)

	progress := make(chan ScanProgress, 16)
	done := drainProgress(progress)

	report, err := New(m).Scan([]string{t.TempDir()}, progress)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	<-done

	if len(report.Added) != 0 || report.Skipped != 0 || len(report.Failed) != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestScan_ClosesProgress(t *testing.T) {
	m := setupTestStore(t)

	progress := make(chan ScanProgress, 16)
	if _, err := New(m).Scan([]string{t.TempDir()}, progress); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	select {
	case _, ok := <-progress:
		for ok {
			_, ok = <-progress
		}
	case <-time.After(time.Second):
		t.Fatal("progress channel not closed")
	}
}

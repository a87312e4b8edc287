// Package importer scans library folders for audiobook files and adds
// new ones to the catalog.
package importer

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/fable/internal/engine"
	"github.com/llehouerou/fable/internal/meta"
	"github.com/llehouerou/fable/internal/store"
)

const numWorkers = 4

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase       string // "scanning", "processing", "done"
	Current     int
	Total       int
	CurrentFile string
	Report      *Report // Only populated when Phase == "done"
}

// Report holds the outcome of a completed scan.
type Report struct {
	Added   []string // paths added to the catalog
	Skipped int      // files already in the catalog
	Failed  []string // files that could not be probed or inserted
}

// bookResult holds the probed metadata for a new file.
type bookResult struct {
	path     string
	book     *meta.Book
	duration time.Duration
	err      error
}

// Importer adds discovered audiobook files to the catalog.
type Importer struct {
	catalog store.Catalog
}

func New(catalog store.Catalog) *Importer {
	return &Importer{catalog: catalog}
}

// Scan walks the given folders and imports every audio file not already
// in the catalog. Known files are matched by absolute path and skipped;
// their positions are never touched. Progress updates are sent on
// progress, which is closed when the scan completes.
func (im *Importer) Scan(folders []string, progress chan<- ScanProgress) (*Report, error) {
	defer close(progress)

	report := &Report{}

	// Phase 1: walk the folders
	progress <- ScanProgress{Phase: "scanning"}
	files := discoverFiles(folders, progress)

	// Phase 2: drop files the catalog already knows
	newFiles := make([]string, 0, len(files))
	for _, path := range files {
		_, err := im.catalog.GetByPath(path)
		switch {
		case err == nil:
			report.Skipped++
		case errors.Is(err, store.ErrNotFound):
			newFiles = append(newFiles, path)
		default:
			return nil, err
		}
	}

	// Phase 3: probe new files in parallel, insert sequentially
	if len(newFiles) > 0 {
		im.processFiles(newFiles, report, progress)
	}

	progress <- ScanProgress{Phase: "done", Current: len(files), Total: len(files), Report: report}
	return report, nil
}

// processFiles probes duration and tags in parallel and inserts the
// results into the catalog one at a time (SQLite prefers a single writer).
func (im *Importer) processFiles(paths []string, report *Report, progress chan<- ScanProgress) {
	total := len(paths)
	var processed atomic.Int64

	workCh := make(chan string, total)
	resultCh := make(chan bookResult, total)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for path := range workCh {
				// Decoding the whole stream to count samples is the
				// expensive part, hence the worker pool.
				dur, err := engine.ProbeDuration(path)
				if err != nil {
					resultCh <- bookResult{path: path, err: err}
					processed.Add(1)
					continue
				}
				resultCh <- bookResult{
					path:     path,
					book:     meta.Read(path),
					duration: dur,
				}
				processed.Add(1)
			}
		})
	}

	go func() {
		for _, path := range paths {
			workCh <- path
		}
		close(workCh)
	}()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				progress <- ScanProgress{
					Phase:   "processing",
					Current: int(processed.Load()),
					Total:   total,
				}
			case <-done:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for result := range resultCh {
		if result.err != nil {
			report.Failed = append(report.Failed, result.path)
			continue
		}
		_, err := im.catalog.Create(store.CreateParams{
			Path:     result.path,
			Name:     result.book.Name,
			Author:   result.book.Author,
			Narrator: result.book.Narrator,
			Duration: result.duration,
		})
		if err != nil {
			report.Failed = append(report.Failed, result.path)
			continue
		}
		report.Added = append(report.Added, result.path)
	}

	close(done)
	progress <- ScanProgress{Phase: "processing", Current: total, Total: total}
}

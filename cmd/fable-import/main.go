// Command fable-import scans library folders and adds new audiobooks to
// the catalog without starting the player.
package main

import (
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/fable/internal/config"
	"github.com/llehouerou/fable/internal/importer"
	"github.com/llehouerou/fable/internal/store"
)

func main() {
	// Folders from the command line override the configured library.
	folders := os.Args[1:]
	if len(folders) == 0 {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		folders = cfg.LibraryFolders
	}
	if len(folders) == 0 {
		log.Fatal("No folders to scan: pass them as arguments or set library_folders in config.toml")
	}

	st, err := store.Open()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	log.Printf("Scanning %d folder(s)...", len(folders))

	progress := make(chan importer.ScanProgress, 16)
	go func() {
		for p := range progress {
			if p.Phase == "processing" && p.Total > 0 {
				log.Printf("  probing %d/%d", p.Current, p.Total)
			}
		}
	}()

	report, err := importer.New(st).Scan(folders, progress)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	for _, path := range report.Added {
		size := "?"
		if info, err := os.Stat(path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		log.Printf("  added %s (%s)", path, size)
	}
	for _, path := range report.Failed {
		log.Printf("  failed %s", path)
	}

	log.Printf("Done: %d added, %d already known, %d failed",
		len(report.Added), report.Skipped, len(report.Failed))
}

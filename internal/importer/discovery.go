package importer

import (
	"os"
	"path/filepath"

	"github.com/llehouerou/fable/internal/engine"
)

// discoverFiles walks the given folders and returns all audio files found.
func discoverFiles(folders []string, progress chan<- ScanProgress) []string {
	var files []string
	for _, folder := range folders {
		_ = filepath.WalkDir(folder, func(path string, d os.DirEntry, walkErr error) error {
			// Skip any walk errors - intentionally continuing to scan other paths
			if walkErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if d.IsDir() {
				return nil
			}
			if !engine.IsAudioFile(path) {
				return nil
			}

			files = append(files, path)

			if len(files)%100 == 0 {
				progress <- ScanProgress{Phase: "scanning", Current: len(files)}
			}
			return nil
		})
	}
	return files
}

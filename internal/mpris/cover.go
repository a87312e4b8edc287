//go:build linux

package mpris

import (
	"os"
	"path/filepath"
)

// coverNames lists common cover art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindCoverArt looks for cover art in the same directory as the book file.
// Returns the path to the art file, or empty string if not found.
func FindCoverArt(bookPath string) string {
	dir := filepath.Dir(bookPath)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

//go:build linux

package notify

import "github.com/llehouerou/fable/internal/mpris"

// FindCoverArt locates cover art for a book file for notification icons.
// This is a convenience wrapper around mpris.FindCoverArt.
func FindCoverArt(bookPath string) string {
	return mpris.FindCoverArt(bookPath)
}

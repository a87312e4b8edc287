//go:build !linux

package notify

// FindCoverArt returns empty on non-Linux platforms.
// Desktop notifications are only supported on Linux via D-Bus.
func FindCoverArt(_ string) string {
	return ""
}

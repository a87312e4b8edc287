// Package meta reads book metadata from audio file tags.
package meta

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Book contains the tag metadata relevant to an audiobook file.
// Audiobook rips usually tag the book title as the album, the author as
// the artist, and the narrator as the composer.
type Book struct {
	Path     string
	Name     string
	Author   string
	Narrator string
}

// Read reads book metadata from an audio file.
// It never fails outright: on unreadable tags it falls back to deriving
// the name from the filename.
func Read(path string) *Book {
	f, err := os.Open(path)
	if err != nil {
		return fromFilename(path)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// dhowden/tag has issues with some UTF-16 encoded ID3 tags
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			if b := readMP3WithID3v2Fallback(path); b != nil {
				return b
			}
		}
		return fromFilename(path)
	}

	name := m.Album()
	if name == "" {
		name = m.Title()
	}
	if name == "" {
		name = baseName(path)
	}

	author := m.AlbumArtist()
	if author == "" {
		author = m.Artist()
	}

	return &Book{
		Path:     path,
		Name:     name,
		Author:   author,
		Narrator: m.Composer(),
	}
}

func fromFilename(path string) *Book {
	return &Book{
		Path: path,
		Name: baseName(path),
	}
}

// baseName strips the directory and extension from a path.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package meta

import (
	"github.com/bogem/id3v2/v2"
)

// readMP3WithID3v2Fallback reads MP3 metadata using only the id3v2 library.
// This is used as a fallback when dhowden/tag fails (e.g., on some UTF-16
// encoded tags). Returns nil if the file has no parseable ID3v2 tag either.
func readMP3WithID3v2Fallback(path string) *Book {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil
	}
	defer id3tag.Close()

	name := id3tag.Album()
	if name == "" {
		name = id3tag.Title()
	}
	if name == "" {
		name = baseName(path)
	}

	author := getID3TextFrame(id3tag, "TPE2") // Album artist frame
	if author == "" {
		author = id3tag.Artist()
	}

	return &Book{
		Path:     path,
		Name:     name,
		Author:   author,
		Narrator: getID3TextFrame(id3tag, "TCOM"),
	}
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

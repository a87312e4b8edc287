package playback

import (
	"time"

	"github.com/llehouerou/fable/internal/store"
)

// Title is the coordinator's view of a loaded audiobook.
// This is a copy of the data, not a reference to store.Title.
type Title struct {
	ID       int64
	Path     string
	Name     string
	Author   string
	Narrator string
	Duration time.Duration // stored duration, used when the engine cannot report one
}

func titleView(t store.Title) *Title {
	return &Title{
		ID:       t.ID,
		Path:     t.Path,
		Name:     t.Name,
		Author:   t.Author,
		Narrator: t.Narrator,
		Duration: t.Duration,
	}
}

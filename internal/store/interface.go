package store

import "time"

// Catalog defines the title catalog contract for dependency injection
// and testing.
type Catalog interface {
	Create(params CreateParams) (*Title, error)
	Get(id int64) (*Title, error)
	GetByPath(path string) (*Title, error)
	List(q Query) ([]Title, error)
	Save(t *Title) error
	AddTag(id int64, tag string) error
	RemoveTag(id int64, tag string) error
	ToggleFavorite(id int64) (bool, error)
	Positions
}

// Positions is the slice of the store the playback coordinator needs:
// position write-through and end-of-media bookkeeping.
type Positions interface {
	UpdatePosition(id int64, pos time.Duration) error
	MarkFinished(id int64) error
	Reset(id int64) error
}

// Verify Manager implements the contracts at compile time.
var (
	_ Catalog   = (*Manager)(nil)
	_ Positions = (*Manager)(nil)
)

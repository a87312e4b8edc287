package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	dbutil "github.com/llehouerou/fable/internal/db"
)

// Title is a persisted audiobook record.
type Title struct {
	ID           int64
	Path         string
	Name         string
	Author       string
	Narrator     string
	Duration     time.Duration
	Position     time.Duration
	Finished     bool
	LastPlayedAt time.Time // zero if never played
	AddedAt      time.Time
	UpdatedAt    time.Time
	Tags         []string
}

// HasTag reports whether the title carries the given tag.
func (t *Title) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// IsFavorite reports whether the title carries the Favorites tag.
func (t *Title) IsFavorite() bool {
	return t.HasTag(FavoritesTag)
}

// CreateParams describes a new title at import time.
type CreateParams struct {
	Path     string
	Name     string
	Author   string
	Narrator string
	Duration time.Duration
	Tags     []string
}

// ErrNotFound is returned when a title id or path does not exist.
var ErrNotFound = errors.New("title not found")

// Create inserts a new title with position 0.
func (m *Manager) Create(params CreateParams) (*Title, error) {
	if params.Duration < 0 {
		return nil, fmt.Errorf("negative duration %v", params.Duration)
	}

	now := time.Now()
	var id int64

	err := dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO titles (path, name, author, narrator, duration_ms, added_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, params.Path, params.Name, params.Author, nullString(params.Narrator),
			params.Duration.Milliseconds(), now.Unix(), now.Unix())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		return insertTags(tx, id, params.Tags)
	})
	if err != nil {
		return nil, err
	}

	return m.Get(id)
}

// Get returns the title with the given id.
func (m *Manager) Get(id int64) (*Title, error) {
	return m.getWhere(`id = ?`, id)
}

// GetByPath returns the title with the given resource path.
func (m *Manager) GetByPath(path string) (*Title, error) {
	return m.getWhere(`path = ?`, path)
}

func (m *Manager) getWhere(cond string, arg any) (*Title, error) {
	row := m.db.QueryRow(`
		SELECT id, path, name, author, narrator, duration_ms, position_ms,
		       finished, last_played_at, added_at, updated_at
		FROM titles WHERE `+cond, arg)

	t, err := scanTitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := m.loadTags(t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdatePosition sets the playback position, clamped to [0, duration],
// and stamps last_played_at.
func (m *Manager) UpdatePosition(id int64, pos time.Duration) error {
	now := time.Now().Unix()
	res, err := m.db.Exec(`
		UPDATE titles
		SET position_ms = MIN(MAX(?, 0), duration_ms),
		    last_played_at = ?,
		    updated_at = ?
		WHERE id = ?
	`, pos.Milliseconds(), now, now, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkFinished marks the title finished and pins its position to the end.
// Finished is monotonic: only Reset clears it.
func (m *Manager) MarkFinished(id int64) error {
	now := time.Now().Unix()
	res, err := m.db.Exec(`
		UPDATE titles
		SET finished = 1,
		    position_ms = duration_ms,
		    last_played_at = ?,
		    updated_at = ?
		WHERE id = ?
	`, now, now, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Reset clears the finished flag and rewinds the position to 0.
func (m *Manager) Reset(id int64) error {
	res, err := m.db.Exec(`
		UPDATE titles
		SET finished = 0,
		    position_ms = 0,
		    updated_at = ?
		WHERE id = ?
	`, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// AddTag adds a tag to the title. Adding an existing tag is a no-op.
func (m *Manager) AddTag(id int64, tag string) error {
	_, err := m.db.Exec(`
		INSERT OR IGNORE INTO title_tags (title_id, tag) VALUES (?, ?)
	`, id, tag)
	return err
}

// RemoveTag removes a tag from the title. Removing an absent tag is a no-op.
func (m *Manager) RemoveTag(id int64, tag string) error {
	_, err := m.db.Exec(`
		DELETE FROM title_tags WHERE title_id = ? AND tag = ?
	`, id, tag)
	return err
}

// ToggleFavorite flips the Favorites tag and returns the new state.
func (m *Manager) ToggleFavorite(id int64) (bool, error) {
	var count int
	err := m.db.QueryRow(`
		SELECT COUNT(*) FROM title_tags WHERE title_id = ? AND tag = ?
	`, id, FavoritesTag).Scan(&count)
	if err != nil {
		return false, err
	}

	if count > 0 {
		return false, m.RemoveTag(id, FavoritesTag)
	}
	return true, m.AddTag(id, FavoritesTag)
}

// Save writes back the mutable display fields and tags of a title.
// Position, finished flag and timestamps are owned by their dedicated
// mutation methods and are not touched here.
func (m *Manager) Save(t *Title) error {
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE titles
			SET name = ?, author = ?, narrator = ?, duration_ms = ?, updated_at = ?
			WHERE id = ?
		`, t.Name, t.Author, nullString(t.Narrator),
			t.Duration.Milliseconds(), time.Now().Unix(), t.ID)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM title_tags WHERE title_id = ?`, t.ID); err != nil {
			return err
		}
		return insertTags(tx, t.ID, t.Tags)
	})
}

func insertTags(tx *sql.Tx, id int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO title_tags (title_id, tag) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, err := stmt.Exec(id, tag); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) loadTags(t *Title) error {
	rows, err := m.db.Query(`SELECT tag FROM title_tags WHERE title_id = ? ORDER BY tag`, t.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return err
		}
		t.Tags = append(t.Tags, tag)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTitle(row rowScanner) (*Title, error) {
	var t Title
	var narrator sql.NullString
	var durationMs, positionMs int64
	var lastPlayed sql.NullInt64
	var addedAt, updatedAt int64

	err := row.Scan(&t.ID, &t.Path, &t.Name, &t.Author, &narrator,
		&durationMs, &positionMs, &t.Finished, &lastPlayed, &addedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.Narrator = dbutil.NullStringValue(narrator)
	t.Duration = time.Duration(durationMs) * time.Millisecond
	t.Position = time.Duration(positionMs) * time.Millisecond
	if lastPlayed.Valid {
		t.LastPlayedAt = time.Unix(lastPlayed.Int64, 0)
	}
	t.AddedAt = time.Unix(addedAt, 0)
	t.UpdatedAt = time.Unix(updatedAt, 0)
	return &t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

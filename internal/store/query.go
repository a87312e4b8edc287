package store

// Filter selects which titles a List call returns.
type Filter int

const (
	FilterAll Filter = iota
	FilterUnfinished
	FilterFinished
	FilterFavorites
	FilterTag // requires Query.Tag
)

// Sort orders List results.
type Sort int

const (
	SortByName Sort = iota
	SortByAuthor
	SortByRecent // most recently played first, never-played last
)

// Query describes a catalog listing.
type Query struct {
	Filter Filter
	Tag    string // used with FilterTag
	Sort   Sort
}

// List returns all titles matching the query.
func (m *Manager) List(q Query) ([]Title, error) {
	sql := `
		SELECT id, path, name, author, narrator, duration_ms, position_ms,
		       finished, last_played_at, added_at, updated_at
		FROM titles
	`
	var args []any

	switch q.Filter {
	case FilterUnfinished:
		sql += ` WHERE finished = 0`
	case FilterFinished:
		sql += ` WHERE finished = 1`
	case FilterFavorites:
		sql += ` WHERE id IN (SELECT title_id FROM title_tags WHERE tag = ?)`
		args = append(args, FavoritesTag)
	case FilterTag:
		sql += ` WHERE id IN (SELECT title_id FROM title_tags WHERE tag = ?)`
		args = append(args, q.Tag)
	case FilterAll:
	}

	switch q.Sort {
	case SortByAuthor:
		sql += ` ORDER BY author COLLATE NOCASE, name COLLATE NOCASE`
	case SortByRecent:
		sql += ` ORDER BY last_played_at IS NULL, last_played_at DESC, name COLLATE NOCASE`
	case SortByName:
		sql += ` ORDER BY name COLLATE NOCASE`
	}

	rows, err := m.db.Query(sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range titles {
		if err := m.loadTags(&titles[i]); err != nil {
			return nil, err
		}
	}
	return titles, nil
}

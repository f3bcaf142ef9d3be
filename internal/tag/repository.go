package tag

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Repository defines the data access contract for tag rows.
type Repository interface {
	// List returns tags ordered by name ascending. A non-empty query
	// narrows the result to names containing it, case-insensitively.
	List(ctx context.Context, query string) ([]Tag, error)
}

// tagRepository implements Repository with hand-written MariaDB queries.
type tagRepository struct {
	db *sql.DB
}

// NewRepository creates a new tag repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &tagRepository{db: db}
}

// List fetches tags, optionally filtered by substring. The name column's
// case-insensitive collation makes LIKE match regardless of case.
func (r *tagRepository) List(ctx context.Context, query string) ([]Tag, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if query == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, name, created_at FROM tags ORDER BY name`)
	} else {
		pattern := "%" + escapeLike(query) + "%"
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, name, created_at FROM tags WHERE name LIKE ? ORDER BY name`,
			pattern)
	}
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied search
// string so they match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

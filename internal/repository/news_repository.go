package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/venuehub/venue-reservation/internal/model"
)

// ErrNewsNotFound indicates that a news item was not located in the DB.
var ErrNewsNotFound = errors.New("news not found")

// NewsRepo manages persistence for admin-authored announcements.
type NewsRepo struct {
	db *sql.DB
}

// NewNewsRepo returns a new NewsRepo bound to the given database.
func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{db: db} }

const newsColumns = `id, title, content, time`

func scanNews(row interface{ Scan(...any) error }) (*model.News, error) {
	var n model.News
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Time); err != nil {
		return nil, err
	}
	n.Time = n.Time.UTC()
	return &n, nil
}

// Create inserts a news item with the given publish time and populates
// the generated ID.
func (r *NewsRepo) Create(ctx context.Context, n *model.News) error {
	const q = `INSERT INTO news (title, content, time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, n.Title, n.Content, n.Time.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// GetByID retrieves a news item by its ID.  It returns ErrNewsNotFound
// when there is no matching row.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (*model.News, error) {
	const q = `SELECT ` + newsColumns + ` FROM news WHERE id = ?`
	n, err := scanNews(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return n, nil
}

// List returns one page of news ordered by publish time descending
// (newest first), along with the total item count.
func (r *NewsRepo) List(ctx context.Context, offset, limit int) ([]model.News, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + newsColumns + ` FROM news ORDER BY time DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	result := make([]model.News, 0, limit)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Update rewrites a news item's title and content.  It returns
// ErrNewsNotFound when the row is absent.
func (r *NewsRepo) Update(ctx context.Context, n *model.News) error {
	res, err := r.db.ExecContext(ctx, `UPDATE news SET title = ?, content = ? WHERE id = ?`, n.Title, n.Content, n.ID)
	if err != nil {
		return err
	}
	if num, _ := res.RowsAffected(); num > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM news WHERE id = ? LIMIT 1`, n.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNewsNotFound
		}
		return err
	}
	return nil
}

// DeleteByID removes a news item.  It returns ErrNewsNotFound when the
// row is absent.
func (r *NewsRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNewsNotFound
	}
	return nil
}

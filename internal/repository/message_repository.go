package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/venuehub/venue-reservation/internal/model"
)

// ErrMessageNotFound indicates that a message was not located in the DB.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepo manages persistence for user messages.  Messages carry a
// moderation state; only passed messages are served to the public
// listing, while authors see their own regardless of state.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

const messageColumns = `id, user_id, content, time, state`

func scanMessage(row interface{ Scan(...any) error }) (*model.Message, error) {
	var m model.Message
	if err := row.Scan(&m.ID, &m.UserID, &m.Content, &m.Time, &m.State); err != nil {
		return nil, err
	}
	m.Time = m.Time.UTC()
	return &m, nil
}

// Create inserts a new message in the pending state with the given
// creation time and populates the generated ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	const q = `INSERT INTO messages (user_id, content, time, state) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.UserID, m.Content, m.Time.UTC(), model.MessageStatePending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	m.State = model.MessageStatePending
	return nil
}

// GetByID retrieves a message by its ID.  It returns ErrMessageNotFound
// when there is no matching row.
func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	const q = `SELECT ` + messageColumns + ` FROM messages WHERE id = ?`
	m, err := scanMessage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

// MessageDetail pairs a message with its author's handle for listings.
type MessageDetail struct {
	ID      uint64    `json:"id"`
	UserID  uint64    `json:"user_id"`
	Handle  string    `json:"handle"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
	State   int       `json:"state"`
}

func collectMessageDetails(rows *sql.Rows) ([]MessageDetail, error) {
	defer rows.Close()
	details := make([]MessageDetail, 0)
	for rows.Next() {
		var d MessageDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.Handle, &d.Content, &d.Time, &d.State); err != nil {
			return nil, err
		}
		d.Time = d.Time.UTC()
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByState returns one page of messages in the given moderation state,
// newest first, along with the total count for that state.  The public
// listing uses the passed state; the admin audit queue uses pending.
func (r *MessageRepo) ListByState(ctx context.Context, state, offset, limit int) ([]MessageDetail, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE state = ?`, state).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT m.id, m.user_id, u.handle, m.content, m.time, m.state
               FROM messages m
               JOIN users u ON u.id = m.user_id
               WHERE m.state = ?
               ORDER BY m.time DESC
               LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, state, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	details, err := collectMessageDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// ListByUser returns one page of the user's own messages regardless of
// state, newest first, along with the user's total message count.
func (r *MessageRepo) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]MessageDetail, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT m.id, m.user_id, u.handle, m.content, m.time, m.state
               FROM messages m
               JOIN users u ON u.id = m.user_id
               WHERE m.user_id = ?
               ORDER BY m.time DESC
               LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	details, err := collectMessageDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// UpdateContent rewrites a message body and resets it to the pending
// state so the edit goes back through moderation.  The row must belong to
// the given user; a mismatch yields ErrForbidden.
func (r *MessageRepo) UpdateContent(ctx context.Context, id, userID uint64, content string) error {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrForbidden
	}
	const q = `UPDATE messages SET content = ?, state = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, content, model.MessageStatePending, id)
	return err
}

// SetState moves a message to the given moderation state (admin audit).
// It returns ErrMessageNotFound when the row is absent.
func (r *MessageRepo) SetState(ctx context.Context, id uint64, state int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET state = ? WHERE id = ?`, state, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM messages WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}

// DeleteByIDAndUser removes a message owned by the given user.  It
// returns ErrMessageNotFound for an absent row and ErrForbidden when the
// message belongs to someone else.  Admins may delete any message via
// DeleteByID.
func (r *MessageRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	return err
}

// DeleteByID removes a message without an ownership check.
func (r *MessageRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/utils"
)

// ErrHandleExists indicates an insert collided with the unique handle
// constraint on the users table.
var ErrHandleExists = errors.New("handle already exists")

// ErrUserNotFound indicates that a user was not located in the DB.
var ErrUserNotFound = errors.New("user not found")

// UserRepo manages persistence for application users.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, handle, name, password_hash, email, phone, is_admin, picture, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Handle, &u.Name, &u.PasswordHash, &u.Email, &u.Phone,
		&u.IsAdmin, &u.Picture, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user, hashing the supplied password with the given
// bcrypt cost, and returns the generated ID.  Handles are stored
// lower-cased and trimmed.  A duplicate handle yields ErrHandleExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	u.Handle = strings.ToLower(strings.TrimSpace(u.Handle))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (handle, name, password_hash, email, phone, is_admin, picture) VALUES (?,?,?,?,?,?,?)",
		u.Handle, u.Name, hash, u.Email, u.Phone, u.IsAdmin, u.Picture)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrHandleExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByHandle fetches a user by normalized handle.  It returns
// ErrUserNotFound when there is no matching row.
func (r *UserRepo) GetByHandle(ctx context.Context, handle string) (*model.User, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE handle=? LIMIT 1", handle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByID fetches a user by id.  It returns ErrUserNotFound when there is
// no matching row.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns one page of users ordered by ID ascending, plus the total
// user count.  It backs the admin user-management listing.
func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id ASC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	result := make([]model.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// UpdateProfile rewrites a user's mutable profile fields.  The password
// is re-hashed only when a non-empty password is supplied.  It returns
// ErrUserNotFound when the row is absent.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User, password string, cost int) error {
	if password != "" {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET name=?, password_hash=?, email=?, phone=?, picture=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		u.Name, u.PasswordHash, u.Email, u.Phone, u.Picture, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=? LIMIT 1`, u.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// DeleteByID removes a user.  It returns ErrUserNotFound when the row is
// absent.
func (r *UserRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

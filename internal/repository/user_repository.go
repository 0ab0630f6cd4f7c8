package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/motohunt/motohunt-api/internal/model"
)

// UserRepo is the credential store.
type UserRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db, now: utcNow} }

const userColumns = "id, username, email, password, role, created_at"

// Create inserts a user and returns its ID.  The email is stored exactly
// as given; ErrDuplicate is returned when it is already taken.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, role model.Role) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)",
		username, email, passwordHash, string(role), r.now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

// GetByEmail fetches a user by exact email match.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	// role is free text in storage; reject anything outside the closed set
	if u.Role, err = model.ParseRole(role); err != nil {
		return model.User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}
	return u, nil
}

// utcNow truncates to microseconds so values round-trip through
// DATETIME(6) columns unchanged.
func utcNow() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

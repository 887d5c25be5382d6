package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/todo-app/internal/database"
	"github.com/iliyamo/todo-app/internal/model"
)

const userColumns = "id, email, username, first_name, last_name, hashed_password, is_active, role, phone_number"

// UserRepo is the credential store. It is bound to a single request's
// session and must not be shared across requests.
type UserRepo struct{ db database.DBTX }

func NewUserRepo(db database.DBTX) *UserRepo { return &UserRepo{db: db} }

// Create inserts u (whose HashedPassword is already set) and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, username, first_name, last_name, hashed_password, is_active, role, phone_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(u.Email), strings.TrimSpace(u.Username), u.FirstName, u.LastName,
		u.HashedPassword, u.IsActive, u.Role, u.PhoneNumber)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1", strings.TrimSpace(username))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUser(row)
}

// UpdatePassword replaces the stored hash for the user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	return r.updateOne(ctx, "UPDATE users SET hashed_password = ? WHERE id = ?", hash, id)
}

// UpdatePhoneNumber sets the user's phone number.
func (r *UserRepo) UpdatePhoneNumber(ctx context.Context, id uint64, phone string) error {
	return r.updateOne(ctx, "UPDATE users SET phone_number = ? WHERE id = ?", phone, id)
}

func (r *UserRepo) updateOne(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.HashedPassword, &u.IsActive, &u.Role, &u.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

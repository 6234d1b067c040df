package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edubase/house-enrolment/internal/model"
)

// UserRepo provides read access to the users table. Accounts are created
// and maintained by the identity platform; this service only resolves the
// columns the enrolment flows depend on (name, email, admin flag).
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the provided database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID fetches a user by id. Returns ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, is_admin, created_at, updated_at FROM users WHERE id = ? LIMIT 1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

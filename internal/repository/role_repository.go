package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/edubase/house-enrolment/internal/model"
)

// RoleRepo provides read access to the roles table. Roles are reference
// data seeded at deploy time; nothing here mutates them.
type RoleRepo struct {
	db *sql.DB
}

// NewRoleRepo returns a new RoleRepo bound to the provided database.
func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{db: db} }

// FindByName resolves a role from a client-supplied name using the
// documented matching rule: case-insensitive exact match first, then
// suffix match ("student" resolves to "Junior Student" when no plain
// "Student" row exists). When several roles share a suffix the most
// privileged one wins, which keeps the result deterministic. Returns
// ErrRoleNotFound when nothing matches.
func (r *RoleRepo) FindByName(ctx context.Context, name string) (model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Role{}, ErrRoleNotFound
	}
	var role model.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, role FROM roles WHERE LOWER(role) = LOWER(?) LIMIT 1`,
		name,
	).Scan(&role.ID, &role.Name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, err
	}
	// Escape LIKE metacharacters so the suffix pattern is built from the
	// literal name, not from whatever wildcards the client smuggled in.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(name))
	err = r.db.QueryRowContext(ctx,
		`SELECT id, role FROM roles WHERE LOWER(role) LIKE ? ORDER BY id LIMIT 1`,
		"%"+escaped,
	).Scan(&role.ID, &role.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, ErrRoleNotFound
	}
	if err != nil {
		return model.Role{}, err
	}
	return role, nil
}

// GetByID fetches a role by its id.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, role FROM roles WHERE id = ? LIMIT 1`, id,
	).Scan(&role.ID, &role.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, ErrRoleNotFound
	}
	return role, err
}

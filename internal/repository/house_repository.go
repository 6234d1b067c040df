package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edubase/house-enrolment/internal/model"
)

// HouseRepo provides read access to the houses table. House creation and
// course management live in another service; enrolment only ever needs to
// verify that a house exists and describe it.
type HouseRepo struct {
	db *sql.DB
}

// NewHouseRepo returns a new HouseRepo bound to the provided database.
func NewHouseRepo(db *sql.DB) *HouseRepo { return &HouseRepo{db: db} }

// GetByID fetches a house by id. Returns ErrHouseNotFound when absent.
func (r *HouseRepo) GetByID(ctx context.Context, id uint64) (model.House, error) {
	var h model.House
	err := r.db.QueryRowContext(ctx,
		`SELECT id, course_id, name, created_at, updated_at FROM houses WHERE id = ? LIMIT 1`, id,
	).Scan(&h.ID, &h.CourseID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.House{}, ErrHouseNotFound
	}
	return h, err
}

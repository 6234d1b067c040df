package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/edubase/house-enrolment/internal/model"
)

// enrolmentTerm is how long an enrolment (or a renewal) remains active.
const enrolmentTerm = 365 * 24 * time.Hour

// EnrolmentRepo provides data access to the enrolments table. The table
// carries a unique key over (user_id, house_id, role_id); Upsert leans on
// it so that concurrent enrolments of the same triple collapse to a single
// row with last-write-wins renewal fields.
type EnrolmentRepo struct {
	db *sql.DB
}

// NewEnrolmentRepo returns a new EnrolmentRepo bound to the provided database.
func NewEnrolmentRepo(db *sql.DB) *EnrolmentRepo { return &EnrolmentRepo{db: db} }

// Upsert creates or renews the enrolment for the given (user, house, role)
// triple. Either way the row ends up with start_date = now, expiry_date one
// year out, and the supplied attribution. The id = LAST_INSERT_ID(id)
// clause makes LastInsertId report the surviving row's id on the duplicate
// path as well as on a fresh insert.
func (r *EnrolmentRepo) Upsert(ctx context.Context, userID, houseID, roleID uint64, att model.Attribution) (model.Enrolment, error) {
	now := time.Now().UTC()
	expiry := now.Add(enrolmentTerm)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO enrolments (user_id, house_id, role_id, start_date, expiry_date, payment_email, purchaser_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   id = LAST_INSERT_ID(id),
		   start_date = VALUES(start_date),
		   expiry_date = VALUES(expiry_date),
		   payment_email = VALUES(payment_email),
		   purchaser_id = VALUES(purchaser_id)`,
		userID, houseID, roleID, now, expiry, att.PaymentEmail, att.PurchaserID,
	)
	if err != nil {
		return model.Enrolment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Enrolment{}, err
	}
	return model.Enrolment{
		ID:           uint64(id),
		UserID:       userID,
		HouseID:      houseID,
		RoleID:       roleID,
		StartDate:    now,
		ExpiryDate:   expiry,
		PaymentEmail: att.PaymentEmail,
		PurchaserID:  att.PurchaserID,
	}, nil
}

// DetachRole removes the enrolment of one user in one house under one role.
// Returns ErrNotEnrolled when no row matched.
func (r *EnrolmentRepo) DetachRole(ctx context.Context, userID, houseID, roleID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM enrolments WHERE user_id = ? AND house_id = ? AND role_id = ?`,
		userID, houseID, roleID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotEnrolled
	}
	return nil
}

// DetachAll removes every enrolment of one user in one house, across all
// roles. Returns ErrNotEnrolled when no rows matched.
func (r *EnrolmentRepo) DetachAll(ctx context.Context, userID, houseID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM enrolments WHERE user_id = ? AND house_id = ?`,
		userID, houseID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotEnrolled
	}
	return nil
}

// MostPrivilegedRole returns the smallest role id among the user's active
// (unexpired) enrolments in the house. The second return reports whether
// such a role exists at all; callers must treat its absence explicitly
// rather than comparing against a zero value.
func (r *EnrolmentRepo) MostPrivilegedRole(ctx context.Context, userID, houseID uint64) (uint64, bool, error) {
	var min sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MIN(role_id) FROM enrolments
		 WHERE user_id = ? AND house_id = ? AND expiry_date > UTC_TIMESTAMP()`,
		userID, houseID,
	).Scan(&min)
	if err != nil {
		return 0, false, err
	}
	if !min.Valid {
		return 0, false, nil
	}
	return uint64(min.Int64), true, nil
}

// RosterByHouse lists every enrolment in a house joined with the user and
// role it points at, most privileged roles first. Expired rows are included
// with their expiry date visible; presentation decides what to do with them.
func (r *EnrolmentRepo) RosterByHouse(ctx context.Context, houseID uint64) ([]model.HouseMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.user_id, u.name, u.email, e.role_id, r.role, e.expiry_date
		 FROM enrolments e
		 JOIN users u ON u.id = e.user_id
		 JOIN roles r ON r.id = e.role_id
		 WHERE e.house_id = ?
		 ORDER BY e.role_id, u.name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []model.HouseMember
	for rows.Next() {
		var m model.HouseMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.RoleID, &m.RoleName, &m.ExpiryDate); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

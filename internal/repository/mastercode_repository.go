package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edubase/house-enrolment/internal/model"
)

// MastercodeRepo provides data access to the mastercodes table. Its one
// mutation, Redeem, is the only place in the system that consumes shared
// enrolment capacity, so it carries the atomicity burden: the row holding
// the code is locked for the duration of the read-decrement-write sequence.
type MastercodeRepo struct {
	db *sql.DB
}

// NewMastercodeRepo returns a new MastercodeRepo bound to the provided database.
func NewMastercodeRepo(db *sql.DB) *MastercodeRepo { return &MastercodeRepo{db: db} }

// Redeem consumes one place from the mastercode matching the supplied code
// string and returns the purchaser attribution for the resulting enrolment.
//
// The whole sequence runs in a single transaction with the row locked via
// SELECT ... FOR UPDATE. Two concurrent redemptions of a code with one
// place left therefore serialize: the first decrements to zero and NULLs
// the code column, the second finds no matching row and fails with
// ErrCodeNotFound. Without the lock both would read places=1 and both
// would succeed, over-committing the capacity the purchaser paid for.
//
// Failure modes: ErrCodeNotFound when no row matches (including exhausted
// codes, whose code column is NULL), ErrCodeExhausted when a matching row
// has zero or NULL places left.
func (r *MastercodeRepo) Redeem(ctx context.Context, code string) (model.Redemption, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Redemption{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		id        uint64
		purchaser uint64
		places    sql.NullInt64
		email     string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, places_alloted, payment_email FROM mastercodes WHERE code = ? FOR UPDATE`,
		code,
	).Scan(&id, &purchaser, &places, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Redemption{}, ErrCodeNotFound
	}
	if err != nil {
		return model.Redemption{}, err
	}
	if !places.Valid || places.Int64 <= 0 {
		return model.Redemption{}, ErrCodeExhausted
	}

	remaining := places.Int64 - 1
	if remaining == 0 {
		// Last place: invalidate the code string so the token can never
		// match a lookup again. The row stays as purchase history.
		_, err = tx.ExecContext(ctx,
			`UPDATE mastercodes SET places_alloted = 0, code = NULL WHERE id = ?`, id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE mastercodes SET places_alloted = ? WHERE id = ?`, remaining, id)
	}
	if err != nil {
		return model.Redemption{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Redemption{}, err
	}
	committed = true
	return model.Redemption{PurchaserID: purchaser, PaymentEmail: email}, nil
}

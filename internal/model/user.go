package model

import "time"

// User represents a row in the `users` table. Profile data beyond what the
// enrolment flows need (a name for rosters, the email recorded as payment
// attribution) is deliberately not mirrored here; other services own those
// columns.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name shown on house rosters.
//  Email     – address recorded as payment_email when this user enrols others.
//  IsAdmin   – platform administrator flag; bypasses the role hierarchy.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    // users.id
	Name      string    // users.name
	Email     string    // users.email
	IsAdmin   bool      // users.is_admin
	CreatedAt time.Time // users.created_at
	UpdatedAt time.Time // users.updated_at
}

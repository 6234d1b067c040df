package model

import "time"

// Enrolment is a time-bounded membership of a user in a house under one
// role. The (UserID, HouseID, RoleID) triple is unique; re-enrolling the
// same triple renews the existing row instead of creating another. A user
// may hold several roles in the same house, each its own row.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – enrolled user.
//  HouseID      – house the user is enrolled in.
//  RoleID       – role held in that house.
//  StartDate    – when this enrolment (or its latest renewal) began.
//  ExpiryDate   – start date plus one year; past this the enrolment is inert.
//  PaymentEmail – address of whoever paid for the enrolment.
//  PurchaserID  – user attributed with the payment.
//  CreatedAt    – timestamp of first creation.
//  UpdatedAt    – timestamp of last renewal.
type Enrolment struct {
	ID           uint64    // enrolments.id
	UserID       uint64    // enrolments.user_id
	HouseID      uint64    // enrolments.house_id
	RoleID       uint64    // enrolments.role_id
	StartDate    time.Time // enrolments.start_date
	ExpiryDate   time.Time // enrolments.expiry_date
	PaymentEmail string    // enrolments.payment_email
	PurchaserID  uint64    // enrolments.purchaser_id
	CreatedAt    time.Time // enrolments.created_at
	UpdatedAt    time.Time // enrolments.updated_at
}

// Active reports whether the enrolment has not yet expired at the given time.
func (e Enrolment) Active(now time.Time) bool {
	return e.ExpiryDate.After(now)
}

// Attribution names who paid for an enrolment. For self-enrolments it comes
// from the redeemed mastercode; for admin enrolments from the acting user.
type Attribution struct {
	PaymentEmail string
	PurchaserID  uint64
}

// HouseMember is one roster line: an enrolled user together with the role
// they hold and when that enrolment lapses. Produced by roster queries,
// never stored directly.
type HouseMember struct {
	UserID     uint64    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RoleID     uint64    `json:"role_id"`
	RoleName   string    `json:"role"`
	ExpiryDate time.Time `json:"expiry_date"`
}

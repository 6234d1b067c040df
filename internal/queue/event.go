// Package queue defines message payloads exchanged over the message broker.
package queue

// EnrolmentConfirmedEvent is published when an enrolment is created or
// renewed, on both the self-enrol and admin-enrol paths. It carries enough
// for downstream consumers (billing reconciliation, notifications, audit)
// to act without querying the primary database.
type EnrolmentConfirmedEvent struct {
	EnrolmentID  uint64 `json:"enrolment_id"`
	UserID       uint64 `json:"user_id"`
	HouseID      uint64 `json:"house_id"`
	RoleID       uint64 `json:"role_id"`
	Path         string `json:"path"` // "self" or "admin"
	PurchaserID  uint64 `json:"purchaser_id"`
	PaymentEmail string `json:"payment_email"`
	StartDate    string `json:"start_date"`
	ExpiryDate   string `json:"expiry_date"`
	ConfirmedAt  string `json:"confirmed_at"`
}

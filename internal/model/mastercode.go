package model

import "time"

// Mastercode represents a purchased block of self-enrolment places. The code
// string is the token handed to students; PlacesAlloted counts the places
// still available. When the last place is consumed the Code column is set to
// NULL so the token can never match a lookup again, but the row itself is
// kept as purchase history.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – purchaser of the code block.
//  Code          – enrolment token; nil once the code is exhausted.
//  PlacesAlloted – remaining places; never increases after purchase.
//  PaymentEmail  – address the purchase receipt was sent to.
//  CreatedAt     – timestamp of purchase.
//  UpdatedAt     – timestamp of last consumption.
type Mastercode struct {
	ID            uint64    // mastercodes.id
	UserID        uint64    // mastercodes.user_id
	Code          *string   // mastercodes.code (nullable)
	PlacesAlloted uint32    // mastercodes.places_alloted
	PaymentEmail  string    // mastercodes.payment_email
	CreatedAt     time.Time // mastercodes.created_at
	UpdatedAt     time.Time // mastercodes.updated_at
}

// Redemption carries the attribution details returned when a mastercode is
// successfully consumed. The enrolment created from it records who paid.
type Redemption struct {
	PurchaserID  uint64 // user who bought the code block
	PaymentEmail string // receipt address attached to the purchase
}

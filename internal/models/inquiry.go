package models

import (
	"time"
)

// InquiryStatus is the approval workflow state of an inquiry. It is a
// separate axis from the soft-delete flag.
type InquiryStatus string

const (
	InquiryStatusPending  InquiryStatus = "pending"
	InquiryStatusApproved InquiryStatus = "approved"
)

// Inquiry is a prospective tenant's submitted interest in a room: contact
// details, the offered price, and an optionally uploaded identity document
// (stored in the blob store, referenced here by key).
type Inquiry struct {
	Base           `bson:",inline"`
	FullName       string        `bson:"full_name" json:"full_name"`
	ContactNumber  string        `bson:"contact_number" json:"contact_number"`
	Email          string        `bson:"email" json:"email"`
	Price          string        `bson:"price" json:"price"`
	RoomNumber     string        `bson:"room_number" json:"room_number"`
	ValidID        string        `bson:"valid_id,omitempty" json:"valid_id,omitempty"` // blob store key, "" when none
	Agreement      bool          `bson:"agreement" json:"agreement"`
	InquiryStatus  InquiryStatus `bson:"inquiry_status" json:"inquiry_status"`
	Active         bool          `bson:"status" json:"status"` // soft-delete flag, true = active
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time    `bson:"deleted_at,omitempty" json:"-"`
}

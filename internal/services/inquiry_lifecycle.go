package services

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"lodgekeep/inquiries/internal/models"
)

// SubmissionInput is the field set accepted from the public submission form.
type SubmissionInput struct {
	FullName      string
	ContactNumber string
	Email         string
	Price         string
	RoomNumber    string
	Agreement     bool
}

// EditInput is the field set accepted from the staff edit form. Agreement
// is a pointer: the field must be present, but both values are accepted,
// unlike submission which requires literal acceptance.
type EditInput struct {
	FullName      string
	ContactNumber string
	Email         string
	Price         string
	RoomNumber    string
	Agreement     *bool
}

const (
	maxNameLen    = 255
	maxRoomLen    = 255
	maxEmailLen   = 255
	maxContactLen = 20
)

// ValidateSubmission checks the submission rules and returns a
// *ValidationError enumerating every failing field, or nil.
func ValidateSubmission(in SubmissionInput) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Price) == "" {
		fields["price"] = "is required"
	}
	checkBoundedRequired(fields, "room_number", in.RoomNumber, maxRoomLen)
	checkBoundedRequired(fields, "full_name", in.FullName, maxNameLen)
	if strings.TrimSpace(in.ContactNumber) == "" {
		fields["contact_number"] = "is required"
	}
	checkEmail(fields, in.Email)
	if !in.Agreement {
		fields["agreement"] = "must be accepted"
	}

	return newValidationError(fields)
}

// ValidateEdit checks the edit rules: price must be numeric, the contact
// number is length-bounded, and agreement must be present (either value).
func ValidateEdit(in EditInput) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Price) == "" {
		fields["price"] = "is required"
	} else if _, err := strconv.ParseFloat(in.Price, 64); err != nil {
		fields["price"] = "must be numeric"
	}
	checkBoundedRequired(fields, "room_number", in.RoomNumber, maxRoomLen)
	checkBoundedRequired(fields, "full_name", in.FullName, maxNameLen)
	if strings.TrimSpace(in.ContactNumber) == "" {
		fields["contact_number"] = "is required"
	} else if len(in.ContactNumber) > maxContactLen {
		fields["contact_number"] = fmt.Sprintf("must be at most %d characters", maxContactLen)
	}
	checkEmail(fields, in.Email)
	if in.Agreement == nil {
		fields["agreement"] = "is required"
	}

	return newValidationError(fields)
}

// CanApprove reports whether the workflow status permits approval. Pending
// moves forward; approved re-applies the same state (idempotent).
func CanApprove(current models.InquiryStatus) bool {
	return current == models.InquiryStatusPending || current == models.InquiryStatusApproved
}

func checkBoundedRequired(fields map[string]string, name, value string, max int) {
	if strings.TrimSpace(value) == "" {
		fields[name] = "is required"
		return
	}
	if len(value) > max {
		fields[name] = fmt.Sprintf("must be at most %d characters", max)
	}
}

func checkEmail(fields map[string]string, value string) {
	if strings.TrimSpace(value) == "" {
		fields["email"] = "is required"
		return
	}
	if len(value) > maxEmailLen {
		fields["email"] = fmt.Sprintf("must be at most %d characters", maxEmailLen)
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		fields["email"] = "must be a valid email address"
	}
}

package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgekeep/inquiries/internal/models"
)

func validSubmission() SubmissionInput {
	return SubmissionInput{
		FullName:      "Alice Reyes",
		ContactNumber: "09171234567",
		Email:         "alice@example.com",
		Price:         "4500",
		RoomNumber:    "B-203",
		Agreement:     true,
	}
}

func validEdit() EditInput {
	agreed := true
	return EditInput{
		FullName:      "Alice Reyes",
		ContactNumber: "09171234567",
		Email:         "alice@example.com",
		Price:         "4500.50",
		RoomNumber:    "B-203",
		Agreement:     &agreed,
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	assert.NoError(t, ValidateSubmission(validSubmission()))
}

func TestValidateSubmission_AgreementRequired(t *testing.T) {
	in := validSubmission()
	in.Agreement = false

	err := ValidateSubmission(in)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "agreement")
	assert.Len(t, valErr.Fields, 1)
}

func TestValidateSubmission_CollectsAllFailingFields(t *testing.T) {
	in := SubmissionInput{
		FullName:      "",
		ContactNumber: "",
		Email:         "not-an-email",
		Price:         "",
		RoomNumber:    strings.Repeat("x", 300),
		Agreement:     false,
	}

	err := ValidateSubmission(in)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	for _, field := range []string{"full_name", "contact_number", "email", "price", "room_number", "agreement"} {
		assert.Contains(t, valErr.Fields, field)
	}
}

func TestValidateSubmission_PriceNonNumericAccepted(t *testing.T) {
	// Submission only requires price to be non-empty; the numeric rule
	// applies on edit.
	in := validSubmission()
	in.Price = "negotiable"
	assert.NoError(t, ValidateSubmission(in))
}

func TestValidateEdit_Valid(t *testing.T) {
	assert.NoError(t, ValidateEdit(validEdit()))
}

func TestValidateEdit_PriceMustBeNumeric(t *testing.T) {
	in := validEdit()
	in.Price = "negotiable"

	err := ValidateEdit(in)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "price")
}

func TestValidateEdit_AgreementBothValuesAccepted(t *testing.T) {
	in := validEdit()
	declined := false
	in.Agreement = &declined
	assert.NoError(t, ValidateEdit(in))
}

func TestValidateEdit_AgreementMustBePresent(t *testing.T) {
	in := validEdit()
	in.Agreement = nil

	err := ValidateEdit(in)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "agreement")
}

func TestValidateEdit_ContactNumberBounded(t *testing.T) {
	in := validEdit()
	in.ContactNumber = strings.Repeat("9", 21)

	err := ValidateEdit(in)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "contact_number")
}

func TestCanApprove(t *testing.T) {
	assert.True(t, CanApprove(models.InquiryStatusPending))
	assert.True(t, CanApprove(models.InquiryStatusApproved))
	assert.False(t, CanApprove(models.InquiryStatus("rejected")))
}

package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"lodgekeep/inquiries/internal/models"
	"lodgekeep/inquiries/internal/storage"
	"lodgekeep/inquiries/internal/utils"
)

// validIDKeyPrefix namespaces uploaded identity documents in the blob store.
const validIDKeyPrefix = "valid_ids"

// Upload is an uploaded identity document accompanying a submission or edit.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ApproveOutcome reports what the approve use case actually did. A failed
// notification never fails the call; it is surfaced here as a warning.
type ApproveOutcome struct {
	Transitioned    bool  // false when the inquiry was already approved
	Notified        bool
	NotificationErr error // non-nil only when a notification was attempted and failed
}

// PagedInquiries is the uniform listing result shape.
type PagedInquiries struct {
	Items    []models.Inquiry `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// IInquiryService defines the inquiry use cases: public submission and the
// staff review workflow (list, edit, approve, soft delete, restore).
type IInquiryService interface {
	Submit(ctx context.Context, in SubmissionInput, upload *Upload) (*models.Inquiry, error)
	List(ctx context.Context, opts ListOptions) (*PagedInquiries, error)
	Find(ctx context.Context, id utils.SixID) (*models.Inquiry, error)
	Approve(ctx context.Context, id utils.SixID) (*models.Inquiry, ApproveOutcome, error)
	Edit(ctx context.Context, id utils.SixID, in EditInput, upload *Upload) (*models.Inquiry, error)
	SoftDelete(ctx context.Context, id utils.SixID, role Role) (*models.Inquiry, error)
	Restore(ctx context.Context, id utils.SixID, role Role) (*models.Inquiry, error)
	PurgeExpired(ctx context.Context, retention time.Duration) (int, error)
}

// inquiryService implements IInquiryService by composing the repository,
// lifecycle rules, blob store, and notifier.
type inquiryService struct {
	repo     InquiryRepository
	blobs    storage.BlobStore
	notifier Notifier
}

// NewInquiryService creates a new InquiryService.
func NewInquiryService(repo InquiryRepository, blobs storage.BlobStore, notifier Notifier) IInquiryService {
	return &inquiryService{repo: repo, blobs: blobs, notifier: notifier}
}

// Submit validates the submission, stores the uploaded identity document (if
// any), and creates the inquiry. Validation runs before any blob I/O; a blob
// stored for a create that then fails is cleaned up.
func (s *inquiryService) Submit(ctx context.Context, in SubmissionInput, upload *Upload) (*models.Inquiry, error) {
	if err := ValidateSubmission(in); err != nil {
		return nil, err
	}

	validID := ""
	if upload != nil {
		key, err := s.blobs.Put(ctx, validIDKeyPrefix, upload.Filename, upload.ContentType, upload.Content)
		if err != nil {
			return nil, err
		}
		validID = key
	}

	inq := &models.Inquiry{
		FullName:      in.FullName,
		ContactNumber: in.ContactNumber,
		Email:         in.Email,
		Price:         in.Price,
		RoomNumber:    in.RoomNumber,
		ValidID:       validID,
		Agreement:     in.Agreement,
		InquiryStatus: models.InquiryStatusPending,
	}
	created, err := s.repo.Create(ctx, inq)
	if err != nil {
		if validID != "" {
			if cleanupErr := s.blobs.Delete(ctx, validID); cleanupErr != nil {
				log.Printf("WARN: failed to clean up orphaned blob %s after create failure: %v", validID, cleanupErr)
			}
		}
		return nil, err
	}
	return created, nil
}

// List is a thin pass-through to the repository.
func (s *inquiryService) List(ctx context.Context, opts ListOptions) (*PagedInquiries, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}
	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &PagedInquiries{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

// Find returns the inquiry regardless of soft-delete status.
func (s *inquiryService) Find(ctx context.Context, id utils.SixID) (*models.Inquiry, error) {
	return s.repo.FindByID(ctx, id)
}

// Approve sets the workflow status to approved and notifies the inquirer.
// The status write is the durable source of truth: a notification failure is
// reported in the outcome, never as an error. The notification fires only on
// an actual pending -> approved transition, so re-approving is idempotent
// without duplicate emails.
func (s *inquiryService) Approve(ctx context.Context, id utils.SixID) (*models.Inquiry, ApproveOutcome, error) {
	inq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ApproveOutcome{}, err
	}
	if !CanApprove(inq.InquiryStatus) {
		return nil, ApproveOutcome{}, fmt.Errorf("inquiry %s cannot be approved from status %q", id.String(), inq.InquiryStatus)
	}
	if inq.InquiryStatus == models.InquiryStatusApproved {
		return inq, ApproveOutcome{}, nil
	}

	updated, err := s.repo.SetInquiryStatus(ctx, id, models.InquiryStatusApproved)
	if err != nil {
		return nil, ApproveOutcome{}, err
	}

	outcome := ApproveOutcome{Transitioned: true}
	if err := s.notifier.NotifyStatusChange(ctx, updated); err != nil {
		log.Printf("WARN: inquiry %s approved but notification failed: %v", id.String(), err)
		outcome.NotificationErr = err
	} else {
		outcome.Notified = true
	}
	return updated, outcome, nil
}

// Edit validates the field set and overwrites the record. When a new file is
// uploaded the new blob is stored first and the record persisted before the
// old blob is deleted, so the record never references a deleted blob.
func (s *inquiryService) Edit(ctx context.Context, id utils.SixID, in EditInput, upload *Upload) (*models.Inquiry, error) {
	if err := ValidateEdit(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validID := existing.ValidID
	newBlob := ""
	if upload != nil {
		key, err := s.blobs.Put(ctx, validIDKeyPrefix, upload.Filename, upload.ContentType, upload.Content)
		if err != nil {
			return nil, err
		}
		newBlob = key
		validID = key
	}

	fields := InquiryFields{
		FullName:      in.FullName,
		ContactNumber: in.ContactNumber,
		Email:         in.Email,
		Price:         in.Price,
		RoomNumber:    in.RoomNumber,
		ValidID:       validID,
		Agreement:     *in.Agreement,
	}
	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if newBlob != "" {
			if cleanupErr := s.blobs.Delete(ctx, newBlob); cleanupErr != nil {
				log.Printf("WARN: failed to clean up blob %s after update failure: %v", newBlob, cleanupErr)
			}
		}
		return nil, err
	}

	// The record now points at the new blob; the old one is unreferenced.
	if newBlob != "" && existing.ValidID != "" && existing.ValidID != newBlob {
		if err := s.blobs.Delete(ctx, existing.ValidID); err != nil {
			log.Printf("WARN: failed to delete replaced blob %s for inquiry %s: %v", existing.ValidID, id.String(), err)
		}
	}
	return updated, nil
}

// SoftDelete marks the inquiry inactive. Deleting an already-deleted record
// is a no-op. The uploaded document is preserved so restore can recover it;
// the retention purge task removes it when the record is hard-deleted.
func (s *inquiryService) SoftDelete(ctx context.Context, id utils.SixID, role Role) (*models.Inquiry, error) {
	if !Authorize(role, ActionDelete) {
		return nil, ErrForbidden
	}

	inq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inq.Active {
		return inq, nil
	}
	return s.repo.SetActive(ctx, id, false)
}

// Restore reactivates a soft-deleted inquiry. Restoring an active record
// fails with ErrNotDeleted; unlike delete, restore is a deliberate recovery
// act whose precondition is checked.
func (s *inquiryService) Restore(ctx context.Context, id utils.SixID, role Role) (*models.Inquiry, error) {
	if !Authorize(role, ActionRestore) {
		return nil, ErrForbidden
	}

	inq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inq.Active {
		return nil, ErrNotDeleted
	}
	return s.repo.SetActive(ctx, id, true)
}

// PurgeExpired hard-deletes inquiries that have been soft-deleted for longer
// than the retention period, deleting each record's blob first. Blob deletes
// are idempotent, so a purge interrupted between blob and record delete is
// safe to re-run. Returns the number of records removed.
func (s *inquiryService) PurgeExpired(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-retention)
	stale, err := s.repo.FindPurgeable(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for i := range stale {
		inq := &stale[i]
		if inq.ValidID != "" {
			if err := s.blobs.Delete(ctx, inq.ValidID); err != nil {
				log.Printf("WARN: skipping purge of inquiry %s, blob delete failed: %v", inq.ID.String(), err)
				continue
			}
		}
		if err := s.repo.HardDelete(ctx, inq.ID); err != nil {
			log.Printf("WARN: failed to hard-delete purged inquiry %s: %v", inq.ID.String(), err)
			continue
		}
		purged++
	}
	return purged, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lodgekeep/inquiries/internal/db"
	"lodgekeep/inquiries/internal/models"
	"lodgekeep/inquiries/internal/utils"
)

const inquiriesCollection = "inquiries"

// ListOptions controls filtering and pagination for inquiry listings.
type ListOptions struct {
	Search         string // substring match on full_name, contact_number, email (case-insensitive)
	Page           int    // 1-indexed
	PageSize       int
	IncludeDeleted bool // default listing hides soft-deleted records
}

// InquiryFields is the full field set written by Update. Partial updates are
// not supported: callers reconcile with prior state and supply everything.
type InquiryFields struct {
	FullName      string
	ContactNumber string
	Email         string
	Price         string
	RoomNumber    string
	ValidID       string
	Agreement     bool
}

// InquiryRepository is the persistence and query layer over inquiry records.
type InquiryRepository interface {
	List(ctx context.Context, opts ListOptions) ([]models.Inquiry, int64, error)
	FindByID(ctx context.Context, id utils.SixID) (*models.Inquiry, error)
	Create(ctx context.Context, inq *models.Inquiry) (*models.Inquiry, error)
	Update(ctx context.Context, id utils.SixID, fields InquiryFields) (*models.Inquiry, error)
	SetActive(ctx context.Context, id utils.SixID, active bool) (*models.Inquiry, error)
	SetInquiryStatus(ctx context.Context, id utils.SixID, status models.InquiryStatus) (*models.Inquiry, error)
	FindPurgeable(ctx context.Context, deletedBefore time.Time) ([]models.Inquiry, error)
	HardDelete(ctx context.Context, id utils.SixID) error
}

// inquiryRepository implements InquiryRepository over MongoDB.
type inquiryRepository struct {
	db *mongo.Database
}

// NewInquiryRepository creates a new InquiryRepository.
func NewInquiryRepository(db *mongo.Database) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) collection() *mongo.Collection {
	return r.db.Collection(inquiriesCollection)
}

// List returns one page of inquiries plus the total match count. The total
// is the true count even when it exceeds the page size, and a page past the
// end yields an empty slice with the same total.
func (r *inquiryRepository) List(ctx context.Context, opts ListOptions) ([]models.Inquiry, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}

	filter := bson.M{}
	if !opts.IncludeDeleted {
		filter["status"] = true
	}
	if opts.Search != "" {
		pattern := primitiveRegex(opts.Search)
		filter["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"contact_number": pattern},
			bson.M{"email": pattern},
		}
	}

	collection := r.collection()
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inquiries: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(opts.Page-1) * int64(opts.PageSize)).
		SetLimit(int64(opts.PageSize))

	cursor, err := collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Inquiry{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("failed to decode inquiries: %w", err)
	}
	return results, total, nil
}

// FindByID finds an inquiry regardless of its soft-delete status, so detail
// views can still show a deleted record.
func (r *inquiryRepository) FindByID(ctx context.Context, id utils.SixID) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&inq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding inquiry %s: %w", id.String(), err)
	}
	return &inq, nil
}

// Create inserts a new inquiry, assigning its ID, defaults, and timestamps.
// Fields must already have passed validation.
func (r *inquiryRepository) Create(ctx context.Context, inq *models.Inquiry) (*models.Inquiry, error) {
	collection := r.collection()
	now := time.Now().UTC()

	operation := func() error {
		inq.GenID()
		if inq.InquiryStatus == "" {
			inq.InquiryStatus = models.InquiryStatusPending
		}
		inq.Active = true
		inq.DeletedAt = nil
		inq.CreatedAt = now
		inq.UpdatedAt = now
		_, insertErr := collection.InsertOne(ctx, inq)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert inquiry (last attempted ID: %s) after multiple retries: %w",
			inq.ID.String(), err)
	}
	return inq, nil
}

// Update overwrites the configured columns with the supplied field set and
// returns the updated document.
func (r *inquiryRepository) Update(ctx context.Context, id utils.SixID, fields InquiryFields) (*models.Inquiry, error) {
	update := bson.M{"$set": bson.M{
		"full_name":      fields.FullName,
		"contact_number": fields.ContactNumber,
		"email":          fields.Email,
		"price":          fields.Price,
		"room_number":    fields.RoomNumber,
		"valid_id":       fields.ValidID,
		"agreement":      fields.Agreement,
		"updated_at":     time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

// SetActive flips the soft-delete flag, maintaining deleted_at alongside.
func (r *inquiryRepository) SetActive(ctx context.Context, id utils.SixID, active bool) (*models.Inquiry, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":     active,
		"updated_at": now,
	}
	update := bson.M{"$set": set}
	if active {
		update["$unset"] = bson.M{"deleted_at": ""}
	} else {
		set["deleted_at"] = now
	}
	return r.findOneAndUpdate(ctx, id, update)
}

// SetInquiryStatus sets the workflow status independent of the soft-delete
// flag.
func (r *inquiryRepository) SetInquiryStatus(ctx context.Context, id utils.SixID, status models.InquiryStatus) (*models.Inquiry, error) {
	update := bson.M{"$set": bson.M{
		"inquiry_status": status,
		"updated_at":     time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

// FindPurgeable returns soft-deleted inquiries whose deletion is older than
// the retention cutoff. Used only by the background purge task.
func (r *inquiryRepository) FindPurgeable(ctx context.Context, deletedBefore time.Time) ([]models.Inquiry, error) {
	filter := bson.M{
		"status":     false,
		"deleted_at": bson.M{"$lt": deletedBefore},
	}
	cursor, err := r.collection().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query purgeable inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Inquiry
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode purgeable inquiries: %w", err)
	}
	return results, nil
}

// HardDelete physically removes a record. Normal flow never calls this; the
// purge task does, after deleting the associated blob.
func (r *inquiryRepository) HardDelete(ctx context.Context, id utils.SixID) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to hard-delete inquiry %s: %w", id.String(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inquiryRepository) findOneAndUpdate(ctx context.Context, id utils.SixID, update bson.M) (*models.Inquiry, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Inquiry
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update inquiry %s: %w", id.String(), err)
	}
	return &updated, nil
}

// primitiveRegex builds a case-insensitive substring matcher with the search
// term quoted, so regex metacharacters in user input match literally.
func primitiveRegex(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}

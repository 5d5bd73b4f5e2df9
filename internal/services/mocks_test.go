package services

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"lodgekeep/inquiries/internal/models"
	"lodgekeep/inquiries/internal/utils"
)

// --- Mocks ---

// MockInquiryRepository
type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) List(ctx context.Context, opts ListOptions) ([]models.Inquiry, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Inquiry), args.Get(1).(int64), args.Error(2)
}

func (m *MockInquiryRepository) FindByID(ctx context.Context, id utils.SixID) (*models.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) Create(ctx context.Context, inq *models.Inquiry) (*models.Inquiry, error) {
	args := m.Called(ctx, inq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) Update(ctx context.Context, id utils.SixID, fields InquiryFields) (*models.Inquiry, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) SetActive(ctx context.Context, id utils.SixID, active bool) (*models.Inquiry, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) SetInquiryStatus(ctx context.Context, id utils.SixID, status models.InquiryStatus) (*models.Inquiry, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) FindPurgeable(ctx context.Context, deletedBefore time.Time) ([]models.Inquiry, error) {
	args := m.Called(ctx, deletedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) HardDelete(ctx context.Context, id utils.SixID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, keyPrefix, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, keyPrefix, filename, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyStatusChange(ctx context.Context, inq *models.Inquiry) error {
	args := m.Called(ctx, inq)
	return args.Error(0)
}

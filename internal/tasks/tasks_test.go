package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgekeep/inquiries/internal/config"
	"lodgekeep/inquiries/internal/services"
	"lodgekeep/inquiries/internal/tasks"
)

type recordingSender struct {
	to      []string
	subject string
	raw     []byte
	err     error
}

func (r *recordingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	r.to, r.subject, r.raw = to, subject, rawMessage
	return r.err
}

// stubInquiryService implements only PurgeExpired; the worker never calls the
// rest of the interface.
type stubInquiryService struct {
	services.IInquiryService
	retention time.Duration
	purged    int
	err       error
}

func (s *stubInquiryService) PurgeExpired(ctx context.Context, retention time.Duration) (int, error) {
	s.retention = retention
	return s.purged, s.err
}

func TestHandleEmailDelivery(t *testing.T) {
	sender := &recordingSender{}
	processor := tasks.NewTaskProcessor(&config.Config{}, sender, nil)

	task, err := tasks.NewEmailDeliveryTask([]string{"alice@example.com"}, "Inquiry Approved", []byte("raw message"))
	require.NoError(t, err)

	require.NoError(t, processor.HandleEmailDelivery(context.Background(), task))
	assert.Equal(t, []string{"alice@example.com"}, sender.to)
	assert.Equal(t, "Inquiry Approved", sender.subject)
	assert.Equal(t, []byte("raw message"), sender.raw)
}

func TestHandleEmailDeliveryBadPayloadSkipsRetry(t *testing.T) {
	sender := &recordingSender{}
	processor := tasks.NewTaskProcessor(&config.Config{}, sender, nil)

	task := asynq.NewTask(tasks.TypeEmailDelivery, []byte("not json"))
	err := processor.HandleEmailDelivery(context.Background(), task)

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Nil(t, sender.to)
}

func TestHandleEmailDeliverySenderFailureRetries(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	processor := tasks.NewTaskProcessor(&config.Config{}, sender, nil)

	task, err := tasks.NewEmailDeliveryTask([]string{"alice@example.com"}, "Inquiry Approved", []byte("raw"))
	require.NoError(t, err)

	err = processor.HandleEmailDelivery(context.Background(), task)
	require.Error(t, err)
	// Transient delivery failures stay retryable.
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleInquiryPurgeUsesConfiguredRetention(t *testing.T) {
	svc := &stubInquiryService{purged: 3}
	cfg := &config.Config{PurgeRetention: 30 * 24 * time.Hour}
	processor := tasks.NewTaskProcessor(cfg, &recordingSender{}, svc)

	err := processor.HandleInquiryPurge(context.Background(), tasks.NewInquiryPurgeTask())

	require.NoError(t, err)
	assert.Equal(t, cfg.PurgeRetention, svc.retention)
}

func TestHandleInquiryPurgePropagatesError(t *testing.T) {
	svc := &stubInquiryService{err: errors.New("mongo unavailable")}
	processor := tasks.NewTaskProcessor(&config.Config{PurgeRetention: time.Hour}, &recordingSender{}, svc)

	err := processor.HandleInquiryPurge(context.Background(), tasks.NewInquiryPurgeTask())
	assert.Error(t, err)
}

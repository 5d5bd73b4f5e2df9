package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"lodgekeep/inquiries/internal/email"
)

// enqueuer is the slice of asynq.Client the producers need.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueEmailSender implements email.Sender by enqueuing an email:deliver
// task instead of talking to SMTP, so request-path callers never block on
// delivery. The background worker performs the actual send and retries
// transient failures.
type QueueEmailSender struct {
	client enqueuer
}

// NewQueueEmailSender creates a Sender that queues deliveries on asynq.
func NewQueueEmailSender(client *asynq.Client) email.Sender {
	return &QueueEmailSender{client: client}
}

// Send enqueues the message for background delivery.
func (s *QueueEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	task, err := NewEmailDeliveryTask(to, subject, rawMessage)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue email delivery to %v: %w", to, err)
	}
	return nil
}

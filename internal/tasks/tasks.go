package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"lodgekeep/inquiries/internal/config"
	"lodgekeep/inquiries/internal/email"
	"lodgekeep/inquiries/internal/services"
)

// Task types handled by the background worker.
const (
	TypeInquiryPurge  = "inquiry:purge"
	TypeEmailDelivery = "email:deliver"
)

// EmailDeliveryPayload is the payload of a queued email delivery task.
type EmailDeliveryPayload struct {
	To         []string `json:"to"`
	Subject    string   `json:"subject"`
	RawMessage []byte   `json:"raw_message"`
}

// NewEmailDeliveryTask builds an email:deliver task for the queue.
func NewEmailDeliveryTask(to []string, subject string, rawMessage []byte) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailDeliveryPayload{To: to, Subject: subject, RawMessage: rawMessage})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email delivery payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDelivery, payload), nil
}

// NewInquiryPurgeTask builds an inquiry:purge task.
func NewInquiryPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeInquiryPurge, nil)
}

// NewClient creates an asynq client on the given Redis connection.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	})
}

// TaskProcessor handles the processing of background tasks.
type TaskProcessor struct {
	cfg            *config.Config
	emailSender    email.Sender
	inquiryService services.IInquiryService
}

// NewTaskProcessor creates a TaskProcessor with its dependencies.
func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, inquiryService services.IInquiryService) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		emailSender:    emailSender,
		inquiryService: inquiryService,
	}
}

// HandleEmailDelivery processes a queued email delivery.
func (p *TaskProcessor) HandleEmailDelivery(ctx context.Context, t *asynq.Task) error {
	var payload EmailDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email delivery payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.emailSender.Send(ctx, payload.To, payload.Subject, payload.RawMessage); err != nil {
		return fmt.Errorf("queued email delivery to %v failed: %w", payload.To, err)
	}
	return nil
}

// HandleInquiryPurge hard-deletes inquiries soft-deleted longer ago than the
// retention period, removing their stored identity documents first.
func (p *TaskProcessor) HandleInquiryPurge(ctx context.Context, t *asynq.Task) error {
	purged, err := p.inquiryService.PurgeExpired(ctx, p.cfg.PurgeRetention)
	if err != nil {
		return fmt.Errorf("inquiry purge failed: %w", err)
	}
	if purged > 0 {
		log.Printf("Inquiry purge removed %d records past the %s retention.", purged, p.cfg.PurgeRetention)
	}
	return nil
}

// SetupServer configures and returns an asynq server with the task handlers
// registered.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDelivery)
	mux.HandleFunc(TypeInquiryPurge, processor.HandleInquiryPurge)
	return srv, mux
}

// StartPurgeScheduler enqueues the purge task on the configured interval
// until the context is cancelled. asynq's dedup on task ID keeps concurrent
// schedulers from stacking purges.
func StartPurgeScheduler(ctx context.Context, client *asynq.Client, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				enqueuePurge(ctx, client)
			}
		}
	}()
}

// enqueuePurge pushes one purge task. A task-ID conflict means another
// scheduler got there first, which is not a failure.
func enqueuePurge(ctx context.Context, client enqueuer) {
	_, err := client.EnqueueContext(ctx, NewInquiryPurgeTask(),
		asynq.Queue("low"),
		asynq.TaskID(TypeInquiryPurge),
		asynq.Retention(time.Minute),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		log.Printf("WARN: failed to enqueue inquiry purge task: %v", err)
	}
}

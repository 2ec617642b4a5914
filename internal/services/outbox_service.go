package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/userhubio/userhub/internal/models"
	"github.com/userhubio/userhub/pkg/logger"
	"github.com/userhubio/userhub/pkg/mail"
	"github.com/userhubio/userhub/pkg/metrics"
)

const (
	defaultOutboxMaxAttempts = 5
	defaultOutboxSchedule    = "@every 1m"
	defaultOutboxBatchSize   = 50
)

// OutboxOption customises the OutboxService.
type OutboxOption func(*OutboxService)

// WithOutboxMaxAttempts caps delivery retries per row.
func WithOutboxMaxAttempts(attempts int) OutboxOption {
	return func(s *OutboxService) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithOutboxSchedule overrides the cron specification for dispatch runs.
func WithOutboxSchedule(spec string) OutboxOption {
	return func(s *OutboxService) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// WithOutboxCron injects a preconfigured cron instance, primarily for testing.
func WithOutboxCron(c *cron.Cron) OutboxOption {
	return func(s *OutboxService) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithOutboxClock injects a custom time source.
func WithOutboxClock(clock func() time.Time) OutboxOption {
	return func(s *OutboxService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// OutboxService persists outbound emails alongside the transaction that
// produced them and drains pending rows on a schedule. Delivery failures are
// recorded on the row instead of being swallowed, so they stay observable and
// retryable.
type OutboxService struct {
	db          *gorm.DB
	mailer      mail.Mailer
	maxAttempts int
	schedule    string
	cron        *cron.Cron
	now         func() time.Time
	log         *zap.Logger
}

// NewOutboxService constructs an OutboxService with the provided dependencies.
func NewOutboxService(db *gorm.DB, mailer mail.Mailer, opts ...OutboxOption) (*OutboxService, error) {
	if db == nil {
		return nil, errors.New("outbox service: db is required")
	}

	service := &OutboxService{
		db:          db,
		mailer:      mailer,
		maxAttempts: defaultOutboxMaxAttempts,
		schedule:    defaultOutboxSchedule,
		now:         time.Now,
		log:         logger.WithModule("outbox"),
	}

	for _, opt := range opts {
		opt(service)
	}

	if service.cron == nil {
		service.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return service, nil
}

// Enqueue stores an outbound email inside the supplied transaction so the row
// commits or rolls back together with the domain change that produced it.
func (s *OutboxService) Enqueue(tx *gorm.DB, entry *models.EmailOutbox) error {
	if tx == nil {
		return errors.New("outbox service: tx is required")
	}
	if entry == nil || entry.Recipient == "" {
		return errors.New("outbox service: recipient is required")
	}

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("outbox service: enqueue: %w", err)
	}
	return nil
}

// Pending returns undelivered rows that still have attempts left.
func (s *OutboxService) Pending(ctx context.Context) ([]models.EmailOutbox, error) {
	ctx = ensureContext(ctx)

	var rows []models.EmailOutbox
	err := s.db.WithContext(ctx).
		Where("sent_at IS NULL AND attempts < ?", s.maxAttempts).
		Order("created_at ASC").
		Limit(defaultOutboxBatchSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("outbox service: load pending: %w", err)
	}
	return rows, nil
}

// DispatchPending delivers pending rows through the configured mailer. The
// returned count is the number of rows successfully sent; per-row delivery
// failures are recorded on the row and aggregated into the returned error.
func (s *OutboxService) DispatchPending(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)

	if s.mailer == nil {
		return 0, nil
	}

	rows, err := s.Pending(ctx)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs error
	)

	for i := range rows {
		row := &rows[i]

		sendErr := s.mailer.Send(ctx, mail.Message{
			To:      []string{row.Recipient},
			Subject: row.Subject,
			Body:    row.Body,
		})

		updates := map[string]any{
			"attempts": row.Attempts + 1,
		}

		if sendErr != nil {
			updates["last_error"] = sendErr.Error()
			metrics.OutboxDeliveries.WithLabelValues("failed").Inc()
			errs = multierr.Append(errs, fmt.Errorf("outbox service: send %s: %w", row.ID, sendErr))
		} else {
			now := s.now()
			updates["last_error"] = ""
			updates["sent_at"] = now
			metrics.OutboxDeliveries.WithLabelValues("sent").Inc()
			sent++
		}

		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("outbox service: update %s: %w", row.ID, err))
		}
	}

	return sent, errs
}

// Start schedules periodic dispatch runs.
func (s *OutboxService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.DispatchPending(context.Background()); err != nil {
			s.log.Warn("outbox dispatch failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("outbox service: schedule dispatch: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any running dispatch to complete.
func (s *OutboxService) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

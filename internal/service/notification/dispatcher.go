package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/cache"
	"locallink/internal/repository"
)

// Waker is notified after a transaction that enqueued outbox events commits.
type Waker interface {
	Wake()
}

// Dispatcher drains the notification outbox into the notifications table.
type Dispatcher struct {
	tm        repository.TransactionManager
	outbox    repository.OutboxRepository
	cache     *cache.Cache
	logger    *slog.Logger
	interval    time.Duration
	batchSize   int
	maxAttempts int
	wake        chan struct{}
}

// NewDispatcher builds a dispatcher. Events that failed maxAttempts times are
// no longer claimed.
func NewDispatcher(tm repository.TransactionManager, outbox repository.OutboxRepository, c *cache.Cache, logger *slog.Logger, interval time.Duration, batchSize, maxAttempts int) *Dispatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Dispatcher{
		tm:          tm,
		outbox:      outbox,
		cache:       c,
		logger:      logger,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		wake:        make(chan struct{}, 1),
	}
}

// Wake schedules a dispatch pass without blocking.
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Start runs until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("notification dispatcher started", slog.Duration("interval", d.interval), slog.Int("batch_size", d.batchSize))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
		case <-d.wake:
		}

		d.drain(ctx)
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := d.DispatchPending(ctx)
		if err != nil {
			d.logger.Error("outbox dispatch failed", slog.Any("error", err))
			return
		}
		if n < d.batchSize {
			return
		}
	}
}

// DispatchPending moves one batch of outbox events into notifications and
// returns how many were delivered. When the batch fails as a whole its events
// are retried one by one, so a single bad event only holds back itself.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	var claimed []domain.OutboxEvent

	err := d.tm.Execute(ctx, func(repos *repository.Repositories) error {
		events, err := repos.Outbox.ClaimPending(ctx, d.batchSize, d.maxAttempts)
		if err != nil {
			return err
		}
		claimed = events
		if len(events) == 0 {
			return nil
		}

		for i := range events {
			if err := repos.Notification.Create(ctx, events[i].Notification()); err != nil {
				return err
			}
		}
		return repos.Outbox.MarkDispatched(ctx, eventIDs(events))
	})
	if err != nil {
		if len(claimed) == 0 {
			return 0, err
		}
		d.logger.Warn("outbox batch failed, dispatching events individually",
			slog.Int("count", len(claimed)), slog.Any("error", err))
		delivered, err := d.dispatchEach(ctx, claimed)
		d.invalidate(ctx, delivered)
		return len(delivered), err
	}

	d.invalidate(ctx, claimed)
	if len(claimed) > 0 {
		d.logger.Debug("dispatched notifications", slog.Int("count", len(claimed)))
	}
	return len(claimed), nil
}

func (d *Dispatcher) dispatchEach(ctx context.Context, events []domain.OutboxEvent) ([]domain.OutboxEvent, error) {
	delivered := make([]domain.OutboxEvent, 0, len(events))
	var firstErr error

	for i := range events {
		ev := events[i]
		err := d.tm.Execute(ctx, func(repos *repository.Repositories) error {
			if err := repos.Notification.Create(ctx, ev.Notification()); err != nil {
				return err
			}
			return repos.Outbox.MarkDispatched(ctx, []uuid.UUID{ev.ID})
		})
		if err != nil {
			if recErr := d.outbox.RecordFailure(ctx, []uuid.UUID{ev.ID}, err.Error()); recErr != nil {
				d.logger.Error("failed to record outbox failure", slog.Any("error", recErr))
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delivered = append(delivered, ev)
	}
	return delivered, firstErr
}

func (d *Dispatcher) invalidate(ctx context.Context, events []domain.OutboxEvent) {
	recipients := make(map[uuid.UUID]struct{}, len(events))
	keys := make([]string, 0, len(events))
	for _, ev := range events {
		if _, seen := recipients[ev.BusinessID]; seen {
			continue
		}
		recipients[ev.BusinessID] = struct{}{}
		keys = append(keys, cache.UnreadCountKey(ev.BusinessID))
	}
	d.cache.Delete(ctx, keys...)
}

func eventIDs(events []domain.OutboxEvent) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}

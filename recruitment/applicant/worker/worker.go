package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/Abraxas-365/intake/pkg/metrics"
	"github.com/Abraxas-365/intake/recruitment/applicant"
)

const maxErrorBackoff = 30 * time.Second

// ErrorBackoff is the first pause after a failed dequeue. It doubles per
// consecutive failure up to maxErrorBackoff.
type Config struct {
	Workers      int
	PollTimeout  time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
	MoveEvery    time.Duration
	ErrorBackoff time.Duration
}

// NotificationWorker drains the applicant event queue and hands each event to
// the notifier, retrying failures with exponential backoff.
type NotificationWorker struct {
	queue    applicant.EventQueue
	notifier applicant.Notifier
	metrics  *metrics.Metrics
	cfg      Config
	wg       sync.WaitGroup
}

func NewNotificationWorker(queue applicant.EventQueue, notifier applicant.Notifier, m *metrics.Metrics, cfg Config) *NotificationWorker {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 30 * time.Second
	}
	if cfg.MoveEvery <= 0 {
		cfg.MoveEvery = 30 * time.Second
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}

	return &NotificationWorker{
		queue:    queue,
		notifier: notifier,
		metrics:  m,
		cfg:      cfg,
	}
}

// Start launches the worker pool and the delayed-event mover. They stop when
// ctx is cancelled; Wait blocks until they have.
func (w *NotificationWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d notification workers", w.cfg.Workers)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.moveDelayedEvents(ctx)
	}()

	for i := 0; i < w.cfg.Workers; i++ {
		w.wg.Add(1)
		go func(workerID int) {
			defer w.wg.Done()
			w.processEvents(ctx, workerID)
		}(i)
	}
}

func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) processEvents(ctx context.Context, workerID int) {
	logx.Debugf("Worker %d started", workerID)

	backoff := w.cfg.ErrorBackoff
	for {
		select {
		case <-ctx.Done():
			logx.Debugf("Worker %d stopping", workerID)
			return
		default:
		}

		data, err := w.queue.Dequeue(ctx, w.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logx.Errorf("Worker %d dequeue error, pausing %s: %v", workerID, backoff, err)
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, maxErrorBackoff)
			continue
		}
		backoff = w.cfg.ErrorBackoff

		// queue timeout, nothing to do
		if len(data) == 0 {
			continue
		}

		var event applicant.Event
		if err := json.Unmarshal(data, &event); err != nil {
			logx.Errorf("Worker %d unmarshal error: %v (data: %s)", workerID, err, string(data))
			continue
		}

		w.HandleEvent(ctx, event)
	}
}

// HandleEvent delivers one event, scheduling a retry or giving up on failure
func (w *NotificationWorker) HandleEvent(ctx context.Context, event applicant.Event) {
	if event.MaxAttempts == 0 {
		event.MaxAttempts = w.cfg.MaxAttempts
	}

	err := w.notifier.Notify(ctx, event)
	if err == nil {
		return
	}

	event.AttemptCount++
	entry := logx.WithFields(logx.Fields{
		"event_id":     event.ID,
		"event_type":   event.Type,
		"attempt":      event.AttemptCount,
		"max_attempts": event.MaxAttempts,
	})

	if event.AttemptCount >= event.MaxAttempts {
		entry.Errorf("notification permanently failed: %v", err)
		w.metrics.IncrementNotificationFailed()
		return
	}

	delay := w.cfg.RetryDelay * time.Duration(1<<uint(event.AttemptCount-1))
	entry.Warnf("notification failed, retrying in %s: %v", delay, err)

	if queueErr := w.queue.EnqueueDelayed(ctx, event, delay); queueErr != nil {
		entry.Errorf("failed to schedule retry: %v", queueErr)
		w.metrics.IncrementNotificationFailed()
	}
}

func (w *NotificationWorker) moveDelayedEvents(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.MoveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed events: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed events to ready queue", count)
			}
		}
	}
}

// sleep waits for d and reports false if ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Package reminder sweeps the task table for due reminders on a schedule.
// Delivery channels (mail, push) are out of scope here; the structured log
// is the notification sink downstream systems tail.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
)

// Source yields tasks whose reminder timestamp has passed.
type Source interface {
	DueReminders(ctx context.Context, before time.Time) ([]domain.Task, error)
}

// Config controls sweep frequency.
type Config struct {
	Interval time.Duration
}

// Worker runs the periodic sweep. Each due reminder is announced once per
// process lifetime; a restart may re-announce, which is acceptable.
type Worker struct {
	source Source
	logger *zap.Logger
	cron   *cron.Cron
	cfg    Config

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewWorker(source Source, logger *zap.Logger, cfg Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Worker{
		source: source,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
		seen:   make(map[string]struct{}),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = w.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := w.Sweep(ctx); err != nil {
			w.logger.Error("reminder sweep failed", zap.Error(err))
		}
	})

	return w
}

// Start launches the cron scheduler.
func (w *Worker) Start() {
	if w == nil || w.cron == nil {
		return
	}
	w.cron.Start()
	w.logger.Info("reminder worker started", zap.Duration("interval", w.cfg.Interval))
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (w *Worker) Stop(ctx context.Context) {
	if w == nil || w.cron == nil {
		return
	}
	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	w.logger.Info("reminder worker stopped")
}

// Sweep announces every newly due reminder exactly once.
func (w *Worker) Sweep(ctx context.Context) error {
	due, err := w.source.DueReminders(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, task := range due {
		w.mu.Lock()
		_, announced := w.seen[task.ID]
		if !announced {
			w.seen[task.ID] = struct{}{}
		}
		w.mu.Unlock()
		if announced {
			continue
		}
		w.logger.Info("reminder due",
			zap.String("task_id", task.ID),
			zap.String("owner_id", task.OwnerID),
			zap.String("title", task.Title),
			zap.Timep("reminder_date", task.ReminderDate))
	}
	return nil
}

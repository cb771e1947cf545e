package tasksync

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
)

// LoadAll replaces the whole collection with a fresh full scan from the
// store. While in flight the status is loading; a failure leaves the prior
// collection untouched. Safe to call repeatedly to force a refresh.
func (c *Core) LoadAll(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}

	c.mu.Lock()
	c.loadStatus = StatusLoading
	c.loadErr = ""
	c.mu.Unlock()

	tasks, err := c.store.ListAll(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		c.loadStatus = StatusFailed
		c.loadErr = err.Error()
		c.mu.Unlock()
		return err
	}
	c.tasks = tasks
	c.loadStatus = StatusSucceeded
	c.mu.Unlock()

	c.notify()
	return nil
}

// AddTask validates the draft locally, inserts it through the store and
// prepends the store's canonical record. The id always comes from the store.
func (c *Core) AddTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}

	created, err := c.store.Insert(ctx, draft)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.tasks = append([]domain.Task{*created}, c.tasks...)
	c.mu.Unlock()
	c.notify()

	// Outdoor tasks get their conditions resolved right away so the view
	// layer can render an indicator without a second round trip.
	if created.IsOutdoor && created.Location != "" {
		if entry := c.WeatherFor(ctx, created.Location); entry.Status == StatusFailed {
			c.logger.Warn("weather lookup for new task failed",
				zap.String("task_id", created.ID),
				zap.String("location", created.Location),
				zap.String("error", entry.Err))
		}
	}

	return created, nil
}

// DeleteTask removes the record remotely, then drops it from the collection.
func (c *Core) DeleteTask(ctx context.Context, id string) error {
	if c.isClosed() {
		return ErrClosed
	}
	if id == "" {
		return domain.ErrInvalidPayload
	}

	if err := c.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.mu.Unlock()
	c.notify()
	return nil
}

// SetCompleted flips the completion flag to the given target value.
func (c *Core) SetCompleted(ctx context.Context, id string, completed bool) (*domain.Task, error) {
	return c.applyPatch(ctx, id, domain.TaskPatch{Completed: &completed})
}

// SetImportant flips the importance flag to the given target value.
func (c *Core) SetImportant(ctx context.Context, id string, important bool) (*domain.Task, error) {
	return c.applyPatch(ctx, id, domain.TaskPatch{Important: &important})
}

// SetReminder stores a reminder timestamp on the task.
func (c *Core) SetReminder(ctx context.Context, id string, reminderAt time.Time) (*domain.Task, error) {
	return c.applyPatch(ctx, id, domain.TaskPatch{ReminderDate: &reminderAt})
}

// Assign requires an active session and always assigns the task to the
// session's own user, regardless of the requested target.
func (c *Core) Assign(ctx context.Context, id string, targetUserID string) (*domain.Task, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	session, err := c.sessions.CurrentSession(ctx)
	if err != nil || session == nil {
		return nil, domain.ErrNoActiveSession
	}
	if targetUserID != "" && targetUserID != session.UserID {
		c.logger.Debug("assignment target overridden by session identity",
			zap.String("requested", targetUserID),
			zap.String("session_user", session.UserID))
	}

	return c.applyPatch(ctx, id, domain.TaskPatch{AssignedTo: &session.UserID})
}

// applyPatch is the shared mutation path: remote update first, then an
// in-place replacement of the record at its id. Position never changes.
func (c *Core) applyPatch(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	if id == "" {
		return nil, domain.ErrInvalidPayload
	}

	updated, err := c.store.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	for i := range c.tasks {
		if c.tasks[i].ID == updated.ID {
			c.tasks[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	c.notify()
	return updated, nil
}

package tasksync

import (
	"strings"
	"time"

	"github.com/taskdeck/backend/domain"
)

// ViewKind selects one of the derived read views over the collection.
type ViewKind string

const (
	ViewAll          ViewKind = "all"
	ViewToday        ViewKind = "today"
	ViewImportant    ViewKind = "important"
	ViewPlanned      ViewKind = "planned"
	ViewAssignedToMe ViewKind = "assigned_to_me"
)

// ParseViewKind maps a query-string value onto a view kind. An empty value
// defaults to the unfiltered view.
func ParseViewKind(raw string) (ViewKind, error) {
	switch ViewKind(raw) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewToday, ViewImportant, ViewPlanned, ViewAssignedToMe:
		return ViewKind(raw), nil
	default:
		return "", domain.WrapError(domain.ErrCodeInvalid, "unknown view kind", nil)
	}
}

// View computes a filtered projection of the collection. The source order is
// preserved and the backing collection is never mutated. asOf anchors the
// "today" comparison so callers control the clock; currentUserID is only
// consulted for the assigned-to-me view.
func (c *Core) View(kind ViewKind, asOf time.Time, currentUserID string) []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		switch kind {
		case ViewToday:
			if !t.DueOn(asOf) {
				continue
			}
		case ViewImportant:
			if !t.Important {
				continue
			}
		case ViewPlanned:
			if !t.Planned() {
				continue
			}
		case ViewAssignedToMe:
			if currentUserID == "" || t.AssignedTo != currentUserID {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Search filters the collection by a case-insensitive substring match over
// title and description. The second return value is false when the query is
// empty or whitespace-only, so callers can tell "not searching" apart from
// "zero results" and fall back to the unfiltered view.
func (c *Core) Search(query string) ([]domain.Task, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if t.Matches(query) {
			out = append(out, t)
		}
	}
	return out, true
}

// PartitionByCompletion splits tasks into an active and a completed group.
// Every task lands in exactly one group and relative order is preserved, so
// completed tasks can always render as a trailing section.
func PartitionByCompletion(tasks []domain.Task) (active, completed []domain.Task) {
	active = make([]domain.Task, 0, len(tasks))
	completed = make([]domain.Task, 0)
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

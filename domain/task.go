package domain

import (
	"strings"
	"time"
)

// Task is a user-created unit of work mirrored from the remote task store.
// IDs are assigned by the store on insert and never change afterwards.
type Task struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Completed    bool       `json:"completed"`
	Important    bool       `json:"important"`
	ReminderDate *time.Time `json:"reminder_date,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	IsOutdoor    bool       `json:"is_outdoor"`
	Location     string     `json:"location,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DueOn reports whether the task is due on the given calendar day,
// ignoring the time-of-day component.
func (t *Task) DueOn(day time.Time) bool {
	if t == nil || t.DueDate == nil {
		return false
	}
	due := t.DueDate.In(day.Location())
	return due.Year() == day.Year() && due.YearDay() == day.YearDay()
}

// Planned reports whether the task has any due date, past or future.
func (t *Task) Planned() bool {
	return t != nil && t.DueDate != nil
}

// Matches reports a case-insensitive substring match against title and description.
func (t *Task) Matches(query string) bool {
	if t == nil {
		return false
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), q)
}

// TaskDraft carries the caller-supplied fields for an insert. Fields the
// store defaults (completed, important, reminder, assignment) are omitted.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsOutdoor   bool       `json:"is_outdoor"`
	Location    string     `json:"location,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskPatch describes a partial update. Nil fields are left untouched by the store.
type TaskPatch struct {
	Completed    *bool      `json:"completed,omitempty"`
	Important    *bool      `json:"important,omitempty"`
	ReminderDate *time.Time `json:"reminder_date,omitempty"`
	AssignedTo   *string    `json:"assigned_to,omitempty"`
}

// IsEmpty reports whether the patch carries no changes.
func (p TaskPatch) IsEmpty() bool {
	return p.Completed == nil && p.Important == nil && p.ReminderDate == nil && p.AssignedTo == nil
}

package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/backend/domain"
)

func TestTask_DueOn(t *testing.T) {
	day := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	due := func(ts time.Time) *time.Time { return &ts }

	tests := []struct {
		name string
		task domain.Task
		want bool
	}{
		{"same day earlier hour", domain.Task{DueDate: due(time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC))}, true},
		{"same day later hour", domain.Task{DueDate: due(time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC))}, true},
		{"previous day", domain.Task{DueDate: due(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC))}, false},
		{"next day", domain.Task{DueDate: due(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))}, false},
		{"same calendar day a year later", domain.Task{DueDate: due(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))}, false},
		{"no due date", domain.Task{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.task.DueOn(day))
		})
	}
}

func TestTask_Planned(t *testing.T) {
	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	withDue := domain.Task{DueDate: &past}
	withoutDue := domain.Task{}

	assert.True(t, withDue.Planned(), "any due date counts, even one in the past")
	assert.False(t, withoutDue.Planned())
}

func TestTask_Matches(t *testing.T) {
	task := domain.Task{Title: "Water the Plants", Description: "balcony and kitchen"}

	assert.True(t, task.Matches("water"))
	assert.True(t, task.Matches("PLANTS"))
	assert.True(t, task.Matches("kitchen"))
	assert.True(t, task.Matches(""), "empty query matches everything")
	assert.False(t, task.Matches("garage"))

	noDesc := domain.Task{Title: "Standalone"}
	assert.True(t, noDesc.Matches("stand"))
	assert.False(t, noDesc.Matches("missing"))
}

func TestTaskPatch_IsEmpty(t *testing.T) {
	assert.True(t, domain.TaskPatch{}.IsEmpty())

	flag := true
	assert.False(t, domain.TaskPatch{Completed: &flag}.IsEmpty())

	now := time.Now()
	assert.False(t, domain.TaskPatch{ReminderDate: &now}.IsEmpty())
}

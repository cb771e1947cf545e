package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/backend/domain"
)

// ReminderQueries serves the reminder sweep across all owners; unlike the
// TaskStore it is not scoped to a single user.
type ReminderQueries struct {
	pool *pgxpool.Pool
}

func NewReminderQueries(pool *pgxpool.Pool) *ReminderQueries {
	return &ReminderQueries{pool: pool}
}

// DueReminders returns uncompleted tasks whose reminder timestamp has passed.
func (r *ReminderQueries) DueReminders(ctx context.Context, before time.Time) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE reminder_date IS NOT NULL
	  AND reminder_date <= $1
	  AND completed = FALSE
	ORDER BY reminder_date ASC
	`
	rows, err := r.pool.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

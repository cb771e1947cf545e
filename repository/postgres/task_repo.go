package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

const taskColumns = `id, owner_id, title, description, due_date, completed, important,
	reminder_date, assigned_to, is_outdoor, location, created_at`

type taskStore struct {
	pool    *pgxpool.Pool
	ownerID string
}

// NewTaskStore returns a Postgres-backed TaskStore scoped to one owner.
// Record ids are assigned by the database, never by the caller.
func NewTaskStore(pool *pgxpool.Pool, ownerID string) repository.TaskStore {
	return &taskStore{pool: pool, ownerID: ownerID}
}

func (s *taskStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE owner_id = $1
	ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, s.ownerID)
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

func (s *taskStore) Insert(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	if draft.Title == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (owner_id, title, description, due_date, is_outdoor, location, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	RETURNING ` + taskColumns + `
	`
	row := s.pool.QueryRow(ctx, query,
		s.ownerID,
		draft.Title,
		draft.Description,
		draft.DueDate,
		draft.IsOutdoor,
		textOrNil(draft.Location),
		nullTime(draft.CreatedAt),
	)
	return scanTask(row)
}

func (s *taskStore) UpdateByID(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET completed     = COALESCE($3, completed),
		important     = COALESCE($4, important),
		reminder_date = COALESCE($5, reminder_date),
		assigned_to   = COALESCE($6, assigned_to)
	WHERE id = $1 AND owner_id = $2
	RETURNING ` + taskColumns + `
	`
	row := s.pool.QueryRow(ctx, query,
		id,
		s.ownerID,
		patch.Completed,
		patch.Important,
		patch.ReminderDate,
		patch.AssignedTo,
	)
	return scanTask(row)
}

func (s *taskStore) DeleteByID(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	tag, err := s.pool.Exec(ctx, query, id, s.ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		description *string
		assignedTo  *string
		location    *string
	)

	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&description,
		&task.DueDate,
		&task.Completed,
		&task.Important,
		&task.ReminderDate,
		&assignedTo,
		&task.IsOutdoor,
		&location,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if description != nil {
		task.Description = *description
	}
	if assignedTo != nil {
		task.AssignedTo = *assignedTo
	}
	if location != nil {
		task.Location = *location
	}
	return &task, nil
}

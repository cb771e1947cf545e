package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// TaskStore is the remote table of task records. All mutations return the
// store's canonical record so callers never have to guess defaulted fields.
type TaskStore interface {
	// ListAll returns every task for the bound owner, newest first (created_at DESC).
	ListAll(ctx context.Context) ([]domain.Task, error)
	// Insert creates a record and returns it with the store-assigned id.
	Insert(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	// UpdateByID applies a partial patch and returns the full updated record.
	UpdateByID(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	// DeleteByID removes a record. Missing ids yield domain.ErrTaskNotFound.
	DeleteByID(ctx context.Context, id string) error
}

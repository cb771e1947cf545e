package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// SessionProvider yields the identity the core acts on behalf of.
// When nobody is signed in it returns domain.ErrSessionNotFound.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (*domain.Session, error)
}

// SessionRepository persists sessions (Redis-backed in production).
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttlSeconds int) error
}

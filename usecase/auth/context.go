package auth

import (
	"context"
	"time"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession stashes the authenticated session in the request context.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext extracts the session placed there by the auth middleware.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok && session != nil
}

// ContextProvider satisfies repository.SessionProvider by reading the
// session the middleware attached to the request context. The task core
// stays transport-agnostic this way.
type ContextProvider struct{}

func (ContextProvider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	session, ok := SessionFromContext(ctx)
	if !ok || session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

var _ repository.SessionProvider = ContextProvider{}

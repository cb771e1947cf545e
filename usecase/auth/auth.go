package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

type UseCase struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	jwtSecret []byte
	jwtIssuer string
	logger    *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, jwtSecret, jwtIssuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		jwtIssuer: jwtIssuer,
		logger:    logger,
	}
}

// Login upserts the identity record, mints a session and signs a bearer
// token carrying the session id.
func (uc *UseCase) Login(ctx context.Context, user *domain.User, ttl time.Duration) (*domain.Session, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, err
	}
	session.Token = token

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	uc.logger.Info("session created", zap.String("user_id", user.ID))
	return session, nil
}

// GetSession resolves a session by id and evicts it when expired.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RefreshSession extends a session's TTL and returns the updated record.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

// RevokeSession removes the session. Callers release the user's task core
// alongside so pending completions become no-ops.
func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": session.ID,
		"user_id":    session.UserID,
		"iss":        uc.jwtIssuer,
		"iat":        session.CreatedAt.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "token signing failed", err)
	}
	return signed, nil
}

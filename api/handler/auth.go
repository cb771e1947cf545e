package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/pkg/httpcontext"
	authUC "github.com/taskdeck/backend/usecase/auth"
	"github.com/taskdeck/backend/usecase/tasksync"
)

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	cores      *tasksync.Manager
	defaultTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, cores *tasksync.Manager, adapter *httpcontext.Adapter, logger *zap.Logger, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cores:       cores,
		defaultTTL:  ttl,
	}
}

// @Summary Sign in and mint a session token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.UserID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, &domain.User{
		ID:    req.UserID,
		Email: req.Email,
		Name:  req.Name,
	}, h.ttlFromRequest(req.TTL))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, session)
}

// @Summary Refresh an existing session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	var req transport.RefreshRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.SessionID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.RefreshSession(stdCtx, req.SessionID, h.ttlFromRequest(req.TTL))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, session)
}

// @Summary Sign out; discards the in-memory task state
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, ok := authUC.SessionFromContext(stdCtx)
	if !ok {
		h.respondError(ctx, domain.ErrNoActiveSession)
		return
	}

	if err := h.uc.RevokeSession(stdCtx, session.ID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.cores.Release(session.UserID)
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Current identity
// @Tags auth
// @Router /api/v1/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, _ := authUC.SessionFromContext(stdCtx)
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"user_id":      sessionUserID(session),
		"display_name": session.DisplayName(),
		"email":        sessionEmail(session),
	})
}

func sessionUserID(s *domain.Session) string {
	if s == nil {
		return ""
	}
	return s.UserID
}

func sessionEmail(s *domain.Session) string {
	if s == nil {
		return ""
	}
	return s.Email
}

func (h *AuthHandler) ttlFromRequest(seconds int) time.Duration {
	if seconds <= 0 {
		return h.defaultTTL
	}
	return time.Duration(seconds) * time.Second
}

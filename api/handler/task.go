package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/usecase/tasksync"
)

type TaskHandler struct {
	baseHandler
	cores *tasksync.Manager
}

func NewTaskHandler(cores *tasksync.Manager, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		cores:       cores,
	}
}

// taskListPayload is what the view layer renders: the filtered tasks already
// partitioned so completed items trail in their own group.
type taskListPayload struct {
	Active    []domain.Task   `json:"active"`
	Completed []domain.Task   `json:"completed"`
	Status    tasksync.Status `json:"status"`
	Error     string          `json:"error,omitempty"`
}

// @Summary List tasks through a derived view or search
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	kind, err := tasksync.ParseViewKind(string(ctx.QueryArgs().Peek("view")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	asOf := time.Now()
	if raw := string(ctx.QueryArgs().Peek("as_of")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid as_of timestamp", nil))
			return
		}
		asOf = parsed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	core := h.cores.Open(userID)
	if status, _ := core.LoadState(); status == tasksync.StatusIdle {
		if err := core.LoadAll(stdCtx); err != nil {
			h.respondError(ctx, err)
			return
		}
	}

	tasks, searching := core.Search(string(ctx.QueryArgs().Peek("q")))
	if !searching {
		tasks = core.View(kind, asOf, userID)
	}

	active, completed := tasksync.PartitionByCompletion(tasks)
	status, loadErr := core.LoadState()
	h.respondSuccess(ctx, http.StatusOK, taskListPayload{
		Active:    active,
		Completed: completed,
		Status:    status,
		Error:     loadErr,
	})
}

// @Summary Force a full reload from the task store
// @Tags tasks
// @Router /api/v1/tasks/refresh [post]
func (h *TaskHandler) Refresh(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	core := h.cores.Open(userID)
	if err := core.LoadAll(stdCtx); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, core.Tasks())
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	draft := domain.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		IsOutdoor:   req.IsOutdoor,
		Location:    req.Location,
	}
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid due_date", nil))
			return
		}
		draft.DueDate = &parsed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.cores.Open(userID).AddTask(stdCtx, draft)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.cores.Open(userID).DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Set the completion flag
// @Tags tasks
// @Router /api/v1/tasks/{id}/completed [put]
func (h *TaskHandler) SetCompleted(ctx *fasthttp.RequestCtx) {
	h.patchFlag(ctx, func(core *tasksync.Core, stdCtx context.Context, id string) (*domain.Task, error) {
		var req transport.CompletedRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			return nil, domain.ErrInvalidPayload
		}
		return core.SetCompleted(stdCtx, id, req.Completed)
	})
}

// @Summary Set the importance flag
// @Tags tasks
// @Router /api/v1/tasks/{id}/important [put]
func (h *TaskHandler) SetImportant(ctx *fasthttp.RequestCtx) {
	h.patchFlag(ctx, func(core *tasksync.Core, stdCtx context.Context, id string) (*domain.Task, error) {
		var req transport.ImportantRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			return nil, domain.ErrInvalidPayload
		}
		return core.SetImportant(stdCtx, id, req.Important)
	})
}

// @Summary Set a reminder timestamp
// @Tags tasks
// @Router /api/v1/tasks/{id}/reminder [put]
func (h *TaskHandler) SetReminder(ctx *fasthttp.RequestCtx) {
	h.patchFlag(ctx, func(core *tasksync.Core, stdCtx context.Context, id string) (*domain.Task, error) {
		var req transport.ReminderRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			return nil, domain.ErrInvalidPayload
		}
		reminderAt, err := time.Parse(time.RFC3339, req.ReminderDate)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid reminder_date", err)
		}
		return core.SetReminder(stdCtx, id, reminderAt)
	})
}

// @Summary Assign the task (always to the session's own user)
// @Tags tasks
// @Router /api/v1/tasks/{id}/assign [put]
func (h *TaskHandler) Assign(ctx *fasthttp.RequestCtx) {
	h.patchFlag(ctx, func(core *tasksync.Core, stdCtx context.Context, id string) (*domain.Task, error) {
		var req transport.AssignRequest
		_ = json.Unmarshal(ctx.PostBody(), &req)
		return core.Assign(stdCtx, id, req.UserID)
	})
}

func (h *TaskHandler) patchFlag(ctx *fasthttp.RequestCtx, apply func(core *tasksync.Core, stdCtx context.Context, id string) (*domain.Task, error)) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := apply(h.cores.Open(userID), stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
	}
	return id
}

func (h *TaskHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
	}
	return userID
}

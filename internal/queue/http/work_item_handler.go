// Package http provides HTTP handlers for work item queue operations.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/httputil"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	"github.com/brandwire/dispatch/internal/queue/http/dto"
	"github.com/brandwire/dispatch/internal/queue/repository"
	queueUseCase "github.com/brandwire/dispatch/internal/queue/usecase"
	customValidation "github.com/brandwire/dispatch/internal/validation"
)

// DispatchNower runs the full dispatch pipeline for a single work item on
// demand. Implemented by the dispatch use case.
type DispatchNower interface {
	DispatchByID(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
}

// WorkItemHandler handles HTTP requests for work item queue operations.
type WorkItemHandler struct {
	workItemUseCase queueUseCase.WorkItemUseCase
	dispatcher      DispatchNower
	logger          *slog.Logger
}

// NewWorkItemHandler creates a new work item handler with required dependencies.
func NewWorkItemHandler(
	workItemUseCase queueUseCase.WorkItemUseCase,
	dispatcher DispatchNower,
	logger *slog.Logger,
) *WorkItemHandler {
	return &WorkItemHandler{
		workItemUseCase: workItemUseCase,
		dispatcher:      dispatcher,
		logger:          logger,
	}
}

// CreateHandler enqueues a new work item.
// POST /v1/work-items
// Returns 201 Created with the queued item.
func (h *WorkItemHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateWorkItemRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, err := h.workItemUseCase.Enqueue(
		c.Request.Context(),
		req.TenantID,
		queueDomain.Platform(req.Platform),
		req.ToPayload(),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapWorkItemToResponse(item))
}

// ListHandler lists work items with optional tenant and status filters.
// GET /v1/work-items?tenant_id=&status=&offset=&limit=
func (h *WorkItemHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	status := queueDomain.WorkItemStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid status filter: %s", status), h.logger)
		return
	}

	items, err := h.workItemUseCase.List(c.Request.Context(), repository.ListFilter{
		TenantID: c.Query("tenant_id"),
		Status:   status,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkItemsToListResponse(items))
}

// GetHandler retrieves a single work item.
// GET /v1/work-items/:id
func (h *WorkItemHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.workItemUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkItemToResponse(item))
}

// PauseHandler pauses a queued work item.
// POST /v1/work-items/:id/pause
func (h *WorkItemHandler) PauseHandler(c *gin.Context) {
	h.transition(c, h.workItemUseCase.Pause)
}

// ResumeHandler resumes a paused work item.
// POST /v1/work-items/:id/resume
func (h *WorkItemHandler) ResumeHandler(c *gin.Context) {
	h.transition(c, h.workItemUseCase.Resume)
}

// CancelHandler cancels a queued or paused work item.
// POST /v1/work-items/:id/cancel
func (h *WorkItemHandler) CancelHandler(c *gin.Context) {
	h.transition(c, h.workItemUseCase.Cancel)
}

// DispatchHandler runs the dispatch pipeline for an item synchronously.
// POST /v1/work-items/:id/dispatch
// Admission denial surfaces as 429 with the diagnostic note; resolution and
// execution failures return the item in its terminal status.
func (h *WorkItemHandler) DispatchHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.dispatcher.DispatchByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkItemToResponse(item))
}

// transition applies a lifecycle transition and renders the updated item.
func (h *WorkItemHandler) transition(
	c *gin.Context,
	call func(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error),
) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := call(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkItemToResponse(item))
}

// parseID extracts and validates the :id path parameter.
func (h *WorkItemHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "invalid work item id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

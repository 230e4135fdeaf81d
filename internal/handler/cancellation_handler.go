package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
	"github.com/classpulse/classpulse-api/pkg/response"
)

// CancellationProvider is the service surface the cancellation handler needs.
type CancellationProvider interface {
	Cancel(ctx context.Context, teacherID string, req dto.CancelClassRequest) (*dto.CancelClassResponse, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Cancellation, error)
	ListByClass(ctx context.Context, classID string) ([]models.Cancellation, error)
}

// CancellationHandler serves cancellation endpoints.
type CancellationHandler struct {
	cancellations CancellationProvider
}

// NewCancellationHandler constructs the cancellation handler.
func NewCancellationHandler(cancellations CancellationProvider) *CancellationHandler {
	return &CancellationHandler{cancellations: cancellations}
}

// Cancel godoc
// @Summary Cancel a class session and notify enrolled students
// @Tags cancellations
// @Accept json
// @Produce json
// @Param request body dto.CancelClassRequest true "cancellation details"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /cancellations [post]
func (h *CancellationHandler) Cancel(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CancelClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	resp, err := h.cancellations.Cancel(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// ListByTeacher godoc
// @Summary List a teacher's cancellations
// @Tags cancellations
// @Produce json
// @Param teacherId path string true "teacher ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cancellations/teacher/{teacherId} [get]
func (h *CancellationHandler) ListByTeacher(c *gin.Context) {
	cancellations, err := h.cancellations.ListByTeacher(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cancellations, nil)
}

// ListByClass godoc
// @Summary List a class's cancellations
// @Tags cancellations
// @Produce json
// @Param classId path string true "class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cancellations/class/{classId} [get]
func (h *CancellationHandler) ListByClass(c *gin.Context) {
	cancellations, err := h.cancellations.ListByClass(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cancellations, nil)
}

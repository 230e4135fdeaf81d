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

// EnrollmentProvider is the service surface the enrollment handler needs.
type EnrollmentProvider interface {
	Enroll(ctx context.Context, req dto.EnrollRequest) (*models.Enrollment, error)
	ListByClass(ctx context.Context, classID string) ([]models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

// EnrollmentHandler serves enrollment endpoints.
type EnrollmentHandler struct {
	enrollments EnrollmentProvider
}

// NewEnrollmentHandler constructs the enrollment handler.
func NewEnrollmentHandler(enrollments EnrollmentProvider) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll godoc
// @Summary Enroll a student in a class
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body dto.EnrollRequest true "enrollment link"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// ListByClass godoc
// @Summary List the roster for a class
// @Tags enrollments
// @Produce json
// @Param classId path string true "class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /enrollments/class/{classId} [get]
func (h *EnrollmentHandler) ListByClass(c *gin.Context) {
	enrollments, err := h.enrollments.ListByClass(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// ListByStudent godoc
// @Summary List a student's enrollments
// @Tags enrollments
// @Produce json
// @Param studentId path string true "student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /enrollments/student/{studentId} [get]
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	enrollments, err := h.enrollments.ListByStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

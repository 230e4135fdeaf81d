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

// AttendanceProvider is the service surface the attendance handler needs.
type AttendanceProvider interface {
	Mark(ctx context.Context, teacherID string, req dto.MarkAttendanceRequest) (*models.Attendance, error)
	ListByClassAndDate(ctx context.Context, classID, date string) ([]models.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error)
	Update(ctx context.Context, id string, update models.AttendanceUpdate) (*models.Attendance, error)
	Summary(ctx context.Context, studentID string) (*models.AttendanceSummary, error)
}

// AttendanceHandler serves attendance endpoints.
type AttendanceHandler struct {
	attendance AttendanceProvider
}

// NewAttendanceHandler constructs the attendance handler.
func NewAttendanceHandler(attendance AttendanceProvider) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Mark godoc
// @Summary Record an attendance mark
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body dto.MarkAttendanceRequest true "attendance mark"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	attendance, err := h.attendance.Mark(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attendance)
}

// ListByClassAndDate godoc
// @Summary List the latest mark per student for a class and date
// @Tags attendance
// @Produce json
// @Param classId path string true "class ID"
// @Param date path string true "date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/class/{classId}/date/{date} [get]
func (h *AttendanceHandler) ListByClassAndDate(c *gin.Context) {
	records, err := h.attendance.ListByClassAndDate(c.Request.Context(), c.Param("classId"), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ListByStudent godoc
// @Summary List a student's attendance marks, most recent first
// @Tags attendance
// @Produce json
// @Param studentId path string true "student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/student/{studentId} [get]
func (h *AttendanceHandler) ListByStudent(c *gin.Context) {
	records, err := h.attendance.ListByStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Summary godoc
// @Summary Aggregate a student's attendance counts and rate
// @Tags attendance
// @Produce json
// @Param studentId path string true "student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/student/{studentId}/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.attendance.Summary(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Update godoc
// @Summary Edit an existing attendance mark
// @Tags attendance
// @Accept json
// @Produce json
// @Param id path string true "attendance ID"
// @Param request body models.AttendanceUpdate true "fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/{id} [patch]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var update models.AttendanceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	attendance, err := h.attendance.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, attendance, nil)
}

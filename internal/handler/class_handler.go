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

// ClassProvider is the service surface the class handler needs.
type ClassProvider interface {
	Create(ctx context.Context, teacherID string, req dto.CreateClassRequest) (*models.Class, error)
	Get(ctx context.Context, id string) (*models.Class, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Class, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Class, error)
	Update(ctx context.Context, id string, update models.ClassUpdate) (*models.Class, error)
}

// ClassHandler serves the class catalogue endpoints.
type ClassHandler struct {
	classes ClassProvider
}

// NewClassHandler constructs the class handler.
func NewClassHandler(classes ClassProvider) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// Create godoc
// @Summary Create a class owned by the calling teacher
// @Tags classes
// @Accept json
// @Produce json
// @Param request body dto.CreateClassRequest true "class details"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	class, err := h.classes.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Get godoc
// @Summary Look up a class by ID
// @Tags classes
// @Produce json
// @Param id path string true "class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Update godoc
// @Summary Partially update a class
// @Tags classes
// @Accept json
// @Produce json
// @Param id path string true "class ID"
// @Param request body models.ClassUpdate true "fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /classes/{id} [patch]
func (h *ClassHandler) Update(c *gin.Context) {
	var update models.ClassUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	class, err := h.classes.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// ListByTeacher godoc
// @Summary List classes owned by a teacher
// @Tags classes
// @Produce json
// @Param teacherId path string true "teacher ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /classes/teacher/{teacherId} [get]
func (h *ClassHandler) ListByTeacher(c *gin.Context) {
	classes, err := h.classes.ListByTeacher(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// ListByStudent godoc
// @Summary List classes a student is enrolled in
// @Tags classes
// @Produce json
// @Param studentId path string true "student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /classes/student/{studentId} [get]
func (h *ClassHandler) ListByStudent(c *gin.Context) {
	classes, err := h.classes.ListByStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

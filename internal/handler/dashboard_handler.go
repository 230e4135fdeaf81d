package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/pkg/response"
)

// DashboardProvider is the service surface the dashboard handler needs.
type DashboardProvider interface {
	TeacherStats(ctx context.Context, teacherID string) (*dto.TeacherStatsResponse, error)
}

// DashboardHandler serves the teacher dashboard aggregate.
type DashboardHandler struct {
	dashboard DashboardProvider
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(dashboard DashboardProvider) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// TeacherStats godoc
// @Summary Teacher dashboard aggregate
// @Description Enrollment counts per class, active class count and the
// @Description number of cancellations in the trailing week.
// @Tags stats
// @Produce json
// @Param teacherId path string true "teacher ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /stats/teacher/{teacherId} [get]
func (h *DashboardHandler) TeacherStats(c *gin.Context) {
	stats, err := h.dashboard.TeacherStats(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

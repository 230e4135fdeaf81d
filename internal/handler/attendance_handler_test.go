package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

type stubAttendanceService struct {
	marked    *models.Attendance
	markErr   error
	summary   *models.AttendanceSummary
	updateErr error
}

func (s *stubAttendanceService) Mark(_ context.Context, teacherID string, req dto.MarkAttendanceRequest) (*models.Attendance, error) {
	if s.markErr != nil {
		return nil, s.markErr
	}
	s.marked = &models.Attendance{
		ID:        "att-1",
		ClassID:   req.ClassID,
		StudentID: req.StudentID,
		TeacherID: teacherID,
		Date:      req.Date,
		Status:    req.Status,
	}
	return s.marked, nil
}

func (s *stubAttendanceService) ListByClassAndDate(_ context.Context, _, _ string) ([]models.Attendance, error) {
	return nil, nil
}

func (s *stubAttendanceService) ListByStudent(_ context.Context, _ string) ([]models.Attendance, error) {
	return nil, nil
}

func (s *stubAttendanceService) Update(_ context.Context, _ string, _ models.AttendanceUpdate) (*models.Attendance, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.Attendance{ID: "att-1"}, nil
}

func (s *stubAttendanceService) Summary(_ context.Context, _ string) (*models.AttendanceSummary, error) {
	return s.summary, nil
}

func TestMarkHandlerCreatesRecord(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAttendanceService{}

	payload, err := json.Marshal(dto.MarkAttendanceRequest{
		ClassID:   "class-1",
		StudentID: "s1",
		Date:      "2026-03-02",
		Status:    models.AttendanceStatusPresent,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	authedContext(c, "teacher-1", models.RoleTeacher)

	NewAttendanceHandler(svc).Mark(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.marked)
	assert.Equal(t, "teacher-1", svc.marked.TeacherID)
}

func TestUpdateHandlerMissingRecord(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAttendanceService{updateErr: appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")}

	payload := []byte(`{"status":"excused"}`)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/attendance/missing", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	NewAttendanceHandler(svc).Update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummaryHandlerReturnsAggregate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAttendanceService{summary: &models.AttendanceSummary{
		Present: 8, Absent: 2, Total: 10, Rate: 80,
	}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/student/s1/summary", nil)
	c.Params = gin.Params{{Key: "studentId", Value: "s1"}}

	NewAttendanceHandler(svc).Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.AttendanceSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 80, envelope.Data.Rate)
	assert.False(t, envelope.Data.LowAttendance)
}

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
	"github.com/classpulse/classpulse-api/internal/middleware"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

type stubCancellationService struct {
	teacherID string
	req       dto.CancelClassRequest
	resp      *dto.CancelClassResponse
	err       error
}

func (s *stubCancellationService) Cancel(_ context.Context, teacherID string, req dto.CancelClassRequest) (*dto.CancelClassResponse, error) {
	s.teacherID = teacherID
	s.req = req
	return s.resp, s.err
}

func (s *stubCancellationService) ListByTeacher(_ context.Context, _ string) ([]models.Cancellation, error) {
	return nil, nil
}

func (s *stubCancellationService) ListByClass(_ context.Context, _ string) ([]models.Cancellation, error) {
	return nil, nil
}

func authedContext(c *gin.Context, userID string, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role})
}

func performCancel(t *testing.T, svc CancellationProvider, body interface{}, claims bool) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/cancellations", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	if claims {
		authedContext(c, "teacher-1", models.RoleTeacher)
	}

	NewCancellationHandler(svc).Cancel(c)
	return w
}

func TestCancelHandlerReturnsCancellationAndCount(t *testing.T) {
	svc := &stubCancellationService{resp: &dto.CancelClassResponse{
		Cancellation:         &models.Cancellation{ID: "cxl-1", ClassID: "class-1"},
		NotificationsCreated: 3,
	}}

	w := performCancel(t, svc, dto.CancelClassRequest{
		ClassID: "class-1",
		Reason:  "illness",
		Date:    "2026-03-02",
	}, true)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teacher-1", svc.teacherID)

	var envelope struct {
		Data dto.CancelClassResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 3, envelope.Data.NotificationsCreated)
	require.NotNil(t, envelope.Data.Cancellation)
	assert.Equal(t, "cxl-1", envelope.Data.Cancellation.ID)
}

func TestCancelHandlerRequiresAuthentication(t *testing.T) {
	svc := &stubCancellationService{}

	w := performCancel(t, svc, dto.CancelClassRequest{ClassID: "class-1", Reason: "illness", Date: "2026-03-02"}, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.teacherID)
}

func TestCancelHandlerPropagatesServiceError(t *testing.T) {
	svc := &stubCancellationService{err: appErrors.Clone(appErrors.ErrValidation, "reason required")}

	w := performCancel(t, svc, dto.CancelClassRequest{ClassID: "class-1", Date: "2026-03-02"}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

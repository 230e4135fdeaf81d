package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse-api/internal/models"
)

type stubNotificationService struct {
	notifications []models.Notification
	markedID      string
}

func (s *stubNotificationService) ListByUser(_ context.Context, _ string) ([]models.Notification, error) {
	return s.notifications, nil
}

func (s *stubNotificationService) MarkRead(_ context.Context, id string) error {
	s.markedID = id
	return nil
}

func TestListByUserHandlerReturnsNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := &stubNotificationService{notifications: []models.Notification{
		{ID: "ntf-2", UserID: "s1", Title: "Class Cancelled", Type: models.NotificationTypeCancellation, CreatedAt: now.Add(time.Hour)},
		{ID: "ntf-1", UserID: "s1", Title: "Class Cancelled", Type: models.NotificationTypeCancellation, CreatedAt: now},
	}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/user/s1", nil)
	c.Params = gin.Params{{Key: "userId", Value: "s1"}}

	NewNotificationHandler(svc).ListByUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []models.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "ntf-2", envelope.Data[0].ID)
}

func TestMarkReadHandlerNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubNotificationService{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/notifications/ntf-1/read", nil)
	c.Params = gin.Params{{Key: "id", Value: "ntf-1"}}

	NewNotificationHandler(svc).MarkRead(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "ntf-1", svc.markedID)
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

type fakeCancellationStore struct {
	created []models.Cancellation
}

func (f *fakeCancellationStore) Create(_ context.Context, c *models.Cancellation) error {
	c.ID = fmt.Sprintf("cxl-%d", len(f.created)+1)
	f.created = append(f.created, *c)
	return nil
}

func (f *fakeCancellationStore) ListByTeacher(_ context.Context, _ string) ([]models.Cancellation, error) {
	return f.created, nil
}

func (f *fakeCancellationStore) ListByClass(_ context.Context, _ string) ([]models.Cancellation, error) {
	return f.created, nil
}

type fakeClassStore struct {
	class *models.Class
	err   error
}

func (f *fakeClassStore) FindByID(_ context.Context, _ string) (*models.Class, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.class, nil
}

type stubNotifier struct {
	classID string
	title   string
	message string
	count   int
	err     error
}

func (s *stubNotifier) FanOutToClass(_ context.Context, classID, title, message string, _ models.NotificationType) (int, error) {
	s.classID = classID
	s.title = title
	s.message = message
	return s.count, s.err
}

func cancelRequest() dto.CancelClassRequest {
	return dto.CancelClassRequest{
		ClassID: "class-1",
		Reason:  "teacher illness",
		Date:    "2026-03-02",
	}
}

func TestCancelPersistsThenNotifiesWithCount(t *testing.T) {
	store := &fakeCancellationStore{}
	classes := &fakeClassStore{class: &models.Class{ID: "class-1", Name: "Algorithms", Code: "CS 201"}}
	notifier := &stubNotifier{count: 3}
	svc := NewCancellationService(store, classes, notifier, nil, nil, nil)

	resp, err := svc.Cancel(context.Background(), "teacher-1", cancelRequest())

	require.NoError(t, err)
	assert.Equal(t, 3, resp.NotificationsCreated)
	require.NotNil(t, resp.Cancellation)
	assert.NotEmpty(t, resp.Cancellation.ID)
	assert.Equal(t, "teacher-1", resp.Cancellation.TeacherID)
	assert.Equal(t, "2026-03-02", resp.Cancellation.Date)

	require.Len(t, store.created, 1)
	assert.Equal(t, "Class Cancelled", notifier.title)
	assert.Equal(t, "CS 201 - Algorithms has been cancelled. Reason: teacher illness", notifier.message)
}

func TestCancelValidationRejectedBeforePersist(t *testing.T) {
	store := &fakeCancellationStore{}
	notifier := &stubNotifier{}
	svc := NewCancellationService(store, &fakeClassStore{}, notifier, nil, nil, nil)

	req := cancelRequest()
	req.Reason = ""
	_, err := svc.Cancel(context.Background(), "teacher-1", req)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
	assert.Empty(t, store.created)
	assert.Empty(t, notifier.classID)
}

func TestCancelMissingClassFallsBackToGenericMessage(t *testing.T) {
	store := &fakeCancellationStore{}
	classes := &fakeClassStore{err: sql.ErrNoRows}
	notifier := &stubNotifier{}
	svc := NewCancellationService(store, classes, notifier, nil, nil, nil)

	resp, err := svc.Cancel(context.Background(), "teacher-1", cancelRequest())

	require.NoError(t, err)
	assert.Zero(t, resp.NotificationsCreated)
	assert.Equal(t, "Your class has been cancelled. Reason: teacher illness", notifier.message)
}

func TestCancelFanoutFailureStillReturnsCancellation(t *testing.T) {
	store := &fakeCancellationStore{}
	classes := &fakeClassStore{class: &models.Class{ID: "class-1", Name: "Algorithms", Code: "CS 201"}}
	notifier := &stubNotifier{err: fmt.Errorf("roster unavailable")}
	svc := NewCancellationService(store, classes, notifier, nil, nil, nil)

	resp, err := svc.Cancel(context.Background(), "teacher-1", cancelRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.Cancellation)
	assert.Zero(t, resp.NotificationsCreated)
	require.Len(t, store.created, 1)
}

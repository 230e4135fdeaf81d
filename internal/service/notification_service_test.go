package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse-api/internal/models"
)

type fakeNotificationStore struct {
	created  []models.Notification
	failFor  map[string]bool
	markedID string
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	if f.failFor[n.UserID] {
		return fmt.Errorf("insert failed")
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationStore) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].UserID == userID {
			out = append(out, f.created[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id string) error {
	f.markedID = id
	return nil
}

type fakeRosterStore struct {
	enrollments []models.Enrollment
	err         error
}

func (f *fakeRosterStore) ListByClass(_ context.Context, _ string) ([]models.Enrollment, error) {
	return f.enrollments, f.err
}

func rosterOf(studentIDs ...string) []models.Enrollment {
	enrollments := make([]models.Enrollment, 0, len(studentIDs))
	for _, id := range studentIDs {
		enrollments = append(enrollments, models.Enrollment{StudentID: id, ClassID: "class-1"})
	}
	return enrollments
}

func TestFanOutToClassCreatesOnePerEnrolledStudent(t *testing.T) {
	store := &fakeNotificationStore{}
	roster := &fakeRosterStore{enrollments: rosterOf("s1", "s2", "s3")}
	svc := NewNotificationService(store, roster, nil, nil)

	created, err := svc.FanOutToClass(context.Background(), "class-1", "Class Cancelled", "CS 201 - Algorithms has been cancelled. Reason: illness", models.NotificationTypeCancellation)

	require.NoError(t, err)
	assert.Equal(t, 3, created)
	require.Len(t, store.created, 3)
	for i, studentID := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, studentID, store.created[i].UserID)
		assert.Equal(t, "Class Cancelled", store.created[i].Title)
		assert.Equal(t, models.NotificationTypeCancellation, store.created[i].Type)
		assert.False(t, store.created[i].IsRead)
	}
}

func TestFanOutToClassEmptyRoster(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, &fakeRosterStore{}, nil, nil)

	created, err := svc.FanOutToClass(context.Background(), "class-1", "Class Cancelled", "msg", models.NotificationTypeCancellation)

	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, store.created)
}

func TestFanOutToClassContinuesPastCreateFailure(t *testing.T) {
	store := &fakeNotificationStore{failFor: map[string]bool{"s2": true}}
	roster := &fakeRosterStore{enrollments: rosterOf("s1", "s2", "s3")}
	svc := NewNotificationService(store, roster, nil, nil)

	created, err := svc.FanOutToClass(context.Background(), "class-1", "Class Cancelled", "msg", models.NotificationTypeCancellation)

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	require.Len(t, store.created, 2)
	assert.Equal(t, "s1", store.created[0].UserID)
	assert.Equal(t, "s3", store.created[1].UserID)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, &fakeRosterStore{}, nil, nil)

	require.NoError(t, svc.MarkRead(context.Background(), "missing-id"))
	require.NoError(t, svc.MarkRead(context.Background(), "missing-id"))
	assert.Equal(t, "missing-id", store.markedID)
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

type fakeAttendanceStore struct {
	created   []models.Attendance
	byStudent []models.Attendance
	byClass   []models.Attendance
	updateErr error
	updated   *models.Attendance
}

func (f *fakeAttendanceStore) Create(_ context.Context, a *models.Attendance) error {
	a.ID = "att-new"
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeAttendanceStore) ListByClassAndDate(_ context.Context, _, _ string) ([]models.Attendance, error) {
	return f.byClass, nil
}

func (f *fakeAttendanceStore) ListByStudent(_ context.Context, _ string) ([]models.Attendance, error) {
	return f.byStudent, nil
}

func (f *fakeAttendanceStore) Update(_ context.Context, _ string, _ models.AttendanceUpdate) (*models.Attendance, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

func mark(id, classID, studentID, date string, status models.AttendanceStatus, markedAt time.Time) models.Attendance {
	return models.Attendance{
		ID:        id,
		ClassID:   classID,
		StudentID: studentID,
		TeacherID: "teacher-1",
		Date:      date,
		Status:    status,
		MarkedAt:  markedAt,
	}
}

func TestMarkRecordsAttendance(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, 75, nil, nil)

	record, err := svc.Mark(context.Background(), "teacher-1", dto.MarkAttendanceRequest{
		ClassID:   "class-1",
		StudentID: "s1",
		Date:      "2026-03-02",
		Status:    models.AttendanceStatusPresent,
	})

	require.NoError(t, err)
	assert.Equal(t, "att-new", record.ID)
	assert.Equal(t, "teacher-1", record.TeacherID)
	require.Len(t, store.created, 1)
}

func TestMarkRejectsUnknownStatus(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, 75, nil, nil)

	_, err := svc.Mark(context.Background(), "teacher-1", dto.MarkAttendanceRequest{
		ClassID:   "class-1",
		StudentID: "s1",
		Date:      "2026-03-02",
		Status:    "tardy",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
	assert.Empty(t, store.created)
}

func TestListByClassAndDateKeepsLatestMarkPerStudent(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := &fakeAttendanceStore{byClass: []models.Attendance{
		mark("att-3", "class-1", "s1", "2026-03-02", models.AttendanceStatusPresent, base.Add(2*time.Hour)),
		mark("att-2", "class-1", "s2", "2026-03-02", models.AttendanceStatusLate, base.Add(time.Hour)),
		mark("att-1", "class-1", "s1", "2026-03-02", models.AttendanceStatusAbsent, base),
	}}
	svc := NewAttendanceService(store, 75, nil, nil)

	records, err := svc.ListByClassAndDate(context.Background(), "class-1", "2026-03-02")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "att-3", records[0].ID)
	assert.Equal(t, models.AttendanceStatusPresent, records[0].Status)
	assert.Equal(t, "att-2", records[1].ID)
}

func TestUpdateMissingRecordReturnsNotFound(t *testing.T) {
	store := &fakeAttendanceStore{updateErr: sql.ErrNoRows}
	svc := NewAttendanceService(store, 75, nil, nil)

	status := models.AttendanceStatusExcused
	_, err := svc.Update(context.Background(), "missing", models.AttendanceUpdate{Status: &status})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestSummaryRoundsRateAndFlagsLowAttendance(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := &fakeAttendanceStore{byStudent: []models.Attendance{
		mark("att-3", "class-1", "s1", "2026-03-04", models.AttendanceStatusAbsent, base.Add(48*time.Hour)),
		mark("att-2", "class-1", "s1", "2026-03-03", models.AttendanceStatusPresent, base.Add(24*time.Hour)),
		mark("att-1", "class-1", "s1", "2026-03-02", models.AttendanceStatusPresent, base),
	}}
	svc := NewAttendanceService(store, 75, nil, nil)

	summary, err := svc.Summary(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 67, summary.Rate)
	assert.True(t, summary.LowAttendance)
}

func TestSummaryUsesLatestMarkForRemarkedDay(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := &fakeAttendanceStore{byStudent: []models.Attendance{
		mark("att-2", "class-1", "s1", "2026-03-02", models.AttendanceStatusPresent, base.Add(time.Hour)),
		mark("att-1", "class-1", "s1", "2026-03-02", models.AttendanceStatusAbsent, base),
	}}
	svc := NewAttendanceService(store, 75, nil, nil)

	summary, err := svc.Summary(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Present)
	assert.Zero(t, summary.Absent)
	assert.Equal(t, 100, summary.Rate)
	assert.False(t, summary.LowAttendance)
}

func TestSummaryZeroMarks(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceStore{}, 75, nil, nil)

	summary, err := svc.Summary(context.Background(), "s1")

	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Rate)
	assert.False(t, summary.LowAttendance)
}

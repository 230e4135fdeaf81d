package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/internal/repository"
	"github.com/classpulse/classpulse-api/pkg/config"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
	"github.com/classpulse/classpulse-api/pkg/jobs"
	"github.com/classpulse/classpulse-api/pkg/storage"
)

type fakeReportStore struct {
	jobs map[string]*models.ReportJob
}

func (f *fakeReportStore) Create(_ context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = "job-1"
	}
	if f.jobs == nil {
		f.jobs = map[string]*models.ReportJob{}
	}
	clone := *job
	f.jobs[job.ID] = &clone
	return nil
}

func (f *fakeReportStore) GetByID(_ context.Context, id string) (*models.ReportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *job
	return &clone, nil
}

func (f *fakeReportStore) Update(_ context.Context, id string, params repository.UpdateReportJobParams) error {
	job := f.jobs[id]
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.ResultPath != nil {
		job.ResultPath = params.ResultPath
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

type fakeReportAttendanceStore struct {
	records []models.Attendance
}

func (f *fakeReportAttendanceStore) ListByClassBetween(_ context.Context, _, _, _ string) ([]models.Attendance, error) {
	return f.records, nil
}

func newTestReportService(t *testing.T, store *fakeReportStore, attendance *fakeReportAttendanceStore) *ReportService {
	t.Helper()

	localStore, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	classes := &fakeClassStore{class: &models.Class{ID: "class-1", Name: "Algorithms", Code: "CS 201"}}
	cfg := config.ReportsConfig{WorkerConcurrency: 1, WorkerRetries: 1}
	return NewReportService(store, attendance, classes, NewExportService(), localStore, signer, nil, cfg, nil, nil)
}

func TestCreateJobRejectsUnknownClass(t *testing.T) {
	store := &fakeReportStore{}
	svc := newTestReportService(t, store, &fakeReportAttendanceStore{})
	svc.classes = &fakeClassStore{err: sql.ErrNoRows}

	_, err := svc.CreateJob(context.Background(), "teacher-1", dto.ReportRequest{
		ClassID: "missing",
		Format:  models.ReportFormatCSV,
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
	assert.Empty(t, store.jobs)
}

func TestHandleJobRendersAndFinishesCSV(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := &fakeReportStore{}
	attendance := &fakeReportAttendanceStore{records: []models.Attendance{
		mark("att-1", "class-1", "s1", "2026-03-02", models.AttendanceStatusPresent, base),
		mark("att-2", "class-1", "s2", "2026-03-02", models.AttendanceStatusAbsent, base),
	}}
	svc := newTestReportService(t, store, attendance)

	require.NoError(t, store.Create(context.Background(), &models.ReportJob{
		ID:        "job-1",
		Params:    models.ReportJobParams{ClassID: "class-1", Format: models.ReportFormatCSV},
		Status:    models.ReportStatusQueued,
		CreatedBy: "teacher-1",
	}))

	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{ID: "job-1"}))

	job := store.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	require.NotNil(t, job.ResultURL)
	assert.Contains(t, *job.ResultURL, "/reports/download?token=")
	require.NotNil(t, job.FinishedAt)

	token := strings.TrimPrefix(*job.ResultURL, "/reports/download?token=")
	file, _, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Date,Student ID,Status,Notes,Marked At")
	assert.Contains(t, string(content), "s1")
	assert.Contains(t, string(content), "absent")
}

func TestGetStatusForbiddenForOtherUser(t *testing.T) {
	store := &fakeReportStore{}
	svc := newTestReportService(t, store, &fakeReportAttendanceStore{})
	require.NoError(t, store.Create(context.Background(), &models.ReportJob{
		ID:        "job-1",
		Status:    models.ReportStatusQueued,
		CreatedBy: "teacher-1",
	}))

	_, err := svc.GetStatus(context.Background(), "teacher-2", "job-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)
}

func TestResolveDownloadRejectsTamperedToken(t *testing.T) {
	store := &fakeReportStore{}
	svc := newTestReportService(t, store, &fakeReportAttendanceStore{})

	_, _, err := svc.ResolveDownload(context.Background(), "job-1.9999999999.cGF0aA.badsignature")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)
}

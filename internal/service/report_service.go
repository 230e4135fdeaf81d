package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/internal/repository"
	"github.com/classpulse/classpulse-api/pkg/config"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
	"github.com/classpulse/classpulse-api/pkg/jobs"
	"github.com/classpulse/classpulse-api/pkg/storage"
)

const jobTypeAttendanceExport = "attendance_export"

// ReportJobStore is the persistence surface for export jobs.
type ReportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
}

// ReportAttendanceStore reads the rows an export covers.
type ReportAttendanceStore interface {
	ListByClassBetween(ctx context.Context, classID, dateFrom, dateTo string) ([]models.Attendance, error)
}

// ReportClassStore resolves class details for document titles.
type ReportClassStore interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// ReportService queues, processes and serves attendance exports.
type ReportService struct {
	reports    ReportJobStore
	attendance ReportAttendanceStore
	classes    ReportClassStore
	exporter   *ExportService
	store      *storage.LocalStorage
	signer     *storage.SignedURLSigner
	metrics    *MetricsService
	queue      *jobs.Queue
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewReportService constructs the report service and its worker queue. Call
// Start before accepting jobs and Stop on shutdown.
func NewReportService(
	reports ReportJobStore,
	attendance ReportAttendanceStore,
	classes ReportClassStore,
	exporter *ExportService,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	cfg config.ReportsConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ReportService{
		reports:    reports,
		attendance: attendance,
		classes:    classes,
		exporter:   exporter,
		store:      store,
		signer:     signer,
		metrics:    metrics,
		validate:   validate,
		logger:     logger,
	}
	s.queue = jobs.NewQueue(jobTypeAttendanceExport, s.handleJob, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// CreateJob validates the request, persists a queued job and enqueues it.
func (s *ReportService) CreateJob(ctx context.Context, userID string, req dto.ReportRequest) (*dto.ReportJobResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find class")
	}

	job := &models.ReportJob{
		Params: models.ReportJobParams{
			ClassID:  req.ClassID,
			DateFrom: req.DateFrom,
			DateTo:   req.DateTo,
			Format:   req.Format,
		},
		Status:    models.ReportStatusQueued,
		CreatedBy: userID,
	}
	if err := s.reports.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create report job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: jobTypeAttendanceExport}); err != nil {
		s.failJob(ctx, job.ID, fmt.Sprintf("enqueue: %v", err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enqueue report job")
	}

	s.logger.Info("report job queued", zap.String("job_id", job.ID), zap.String("class_id", req.ClassID))
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// GetStatus returns job progress for its creator.
func (s *ReportService) GetStatus(ctx context.Context, userID, jobID string) (*dto.ReportStatusResponse, error) {
	job, err := s.reports.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find report job")
	}
	if job.CreatedBy != userID {
		return nil, appErrors.ErrForbidden
	}

	return &dto.ReportStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
	}, nil
}

// ResolveDownload validates a signed token and opens the export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*os.File, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}

	job, err := s.reports.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find report job")
	}
	if job.Status != models.ReportStatusFinished || job.ResultPath == nil || *job.ResultPath != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report file not available")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "open report file")
	}
	return file, relPath, nil
}

func (s *ReportService) handleJob(ctx context.Context, job jobs.Job) error {
	record, err := s.reports.GetByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", job.ID, err)
	}

	processing := models.ReportStatusProcessing
	if err := s.reports.Update(ctx, record.ID, repository.UpdateReportJobParams{Status: &processing}); err != nil {
		return fmt.Errorf("mark report job processing: %w", err)
	}

	if err := s.process(ctx, record); err != nil {
		s.failJob(ctx, record.ID, err.Error())
		if s.metrics != nil {
			s.metrics.ReportJobsTotal.WithLabelValues(string(models.ReportStatusFailed)).Inc()
		}
		return nil
	}

	if s.metrics != nil {
		s.metrics.ReportJobsTotal.WithLabelValues(string(models.ReportStatusFinished)).Inc()
	}
	return nil
}

func (s *ReportService) process(ctx context.Context, job *models.ReportJob) error {
	records, err := s.attendance.ListByClassBetween(ctx, job.Params.ClassID, job.Params.DateFrom, job.Params.DateTo)
	if err != nil {
		return fmt.Errorf("load attendance rows: %w", err)
	}

	title := "Attendance Report"
	if class, err := s.classes.FindByID(ctx, job.Params.ClassID); err == nil {
		title = fmt.Sprintf("Attendance Report %s %s", class.Code, class.Name)
	}

	payload, err := s.exporter.Render(records, job.Params.Format, title)
	if err != nil {
		return fmt.Errorf("render export: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", job.ID, job.Params.Format)
	relPath, err := s.store.Save(filename, payload)
	if err != nil {
		return fmt.Errorf("store export: %w", err)
	}

	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign download url: %w", err)
	}
	resultURL := fmt.Sprintf("/reports/download?token=%s", token)

	finished := models.ReportStatusFinished
	now := time.Now().UTC()
	update := repository.UpdateReportJobParams{
		Status:     &finished,
		ResultPath: &relPath,
		ResultURL:  &resultURL,
		FinishedAt: &now,
	}
	if err := s.reports.Update(ctx, job.ID, update); err != nil {
		return fmt.Errorf("mark report job finished: %w", err)
	}

	s.logger.Info("report job finished", zap.String("job_id", job.ID), zap.Int("rows", len(records)))
	return nil
}

func (s *ReportService) failJob(ctx context.Context, jobID, message string) {
	failed := models.ReportStatusFailed
	now := time.Now().UTC()
	update := repository.UpdateReportJobParams{
		Status:       &failed,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}
	if err := s.reports.Update(ctx, jobID, update); err != nil {
		s.logger.Error("failed to mark report job failed", zap.String("job_id", jobID), zap.Error(err))
	}
}

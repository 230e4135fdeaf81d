package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

const cancellationTitle = "Class Cancelled"

// CancellationStore is the persistence surface the cancellation service needs.
type CancellationStore interface {
	Create(ctx context.Context, cancellation *models.Cancellation) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Cancellation, error)
	ListByClass(ctx context.Context, classID string) ([]models.Cancellation, error)
}

// CancellationClassStore resolves class details for notification text.
type CancellationClassStore interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// ClassNotifier fans a message out to every student enrolled in a class.
type ClassNotifier interface {
	FanOutToClass(ctx context.Context, classID, title, message string, notifType models.NotificationType) (int, error)
}

// CancellationService records cancellations and notifies affected students.
type CancellationService struct {
	cancellations CancellationStore
	classes       CancellationClassStore
	notifier      ClassNotifier
	cache         *CacheService
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewCancellationService constructs the cancellation service. cache may be
// nil when caching is disabled.
func NewCancellationService(cancellations CancellationStore, classes CancellationClassStore, notifier ClassNotifier, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CancellationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CancellationService{
		cancellations: cancellations,
		classes:       classes,
		notifier:      notifier,
		cache:         cache,
		validate:      validate,
		logger:        logger,
	}
}

// Cancel records the cancellation and then fans notifications out to every
// enrolled student. The two steps are deliberately sequential: once the
// cancellation row is persisted it stays persisted even if the fanout
// partially fails, and the returned count reports only the notifications
// actually created.
func (s *CancellationService) Cancel(ctx context.Context, teacherID string, req dto.CancelClassRequest) (*dto.CancelClassResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	cancellation := &models.Cancellation{
		ClassID:         req.ClassID,
		TeacherID:       teacherID,
		Reason:          req.Reason,
		AdditionalNotes: req.AdditionalNotes,
		WillReschedule:  req.WillReschedule,
		Date:            req.Date,
	}
	if err := s.cancellations.Create(ctx, cancellation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create cancellation")
	}

	message := s.buildMessage(ctx, req.ClassID, req.Reason)
	created, err := s.notifier.FanOutToClass(ctx, req.ClassID, cancellationTitle, message, models.NotificationTypeCancellation)
	if err != nil {
		// The cancellation is already stored; report it with a zero count
		// rather than failing the whole request.
		s.logger.Error("cancellation fanout failed",
			zap.String("cancellation_id", cancellation.ID),
			zap.String("class_id", req.ClassID),
			zap.Error(err))
		created = 0
	}

	// The week cancellation count on the teacher dashboard just changed.
	if s.cache != nil {
		s.cache.InvalidateTeacher(ctx, teacherID)
	}

	return &dto.CancelClassResponse{
		Cancellation:         cancellation,
		NotificationsCreated: created,
	}, nil
}

// ListByTeacher returns a teacher's cancellations, newest first.
func (s *CancellationService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Cancellation, error) {
	cancellations, err := s.cancellations.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list cancellations")
	}
	return cancellations, nil
}

// ListByClass returns a class's cancellations, newest first.
func (s *CancellationService) ListByClass(ctx context.Context, classID string) ([]models.Cancellation, error) {
	cancellations, err := s.cancellations.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list cancellations")
	}
	return cancellations, nil
}

// buildMessage resolves class details for the notification text. A missing
// class row degrades to a generic message instead of aborting delivery.
func (s *CancellationService) buildMessage(ctx context.Context, classID, reason string) string {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("class lookup failed for cancellation message", zap.String("class_id", classID), zap.Error(err))
		}
		return fmt.Sprintf("Your class has been cancelled. Reason: %s", reason)
	}
	return fmt.Sprintf("%s - %s has been cancelled. Reason: %s", class.Code, class.Name, reason)
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

// NotificationStore is the persistence surface the notification service needs.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationEnrollmentStore resolves a class roster for fanout.
type NotificationEnrollmentStore interface {
	ListByClass(ctx context.Context, classID string) ([]models.Enrollment, error)
}

// NotificationService creates and delivers in-app notifications.
type NotificationService struct {
	notifications NotificationStore
	enrollments   NotificationEnrollmentStore
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewNotificationService constructs the notification service.
func NewNotificationService(notifications NotificationStore, enrollments NotificationEnrollmentStore, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{notifications: notifications, enrollments: enrollments, metrics: metrics, logger: logger}
}

// FanOutToClass creates one notification per student enrolled in the class
// at call time and returns how many were created. The roster is read once;
// students enrolling afterwards receive nothing. A failed create for one
// student is logged and does not stop delivery to the rest.
func (s *NotificationService) FanOutToClass(ctx context.Context, classID, title, message string, notifType models.NotificationType) (int, error) {
	roster, err := s.enrollments.ListByClass(ctx, classID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load class roster")
	}

	created := 0
	for _, enrollment := range roster {
		notification := &models.Notification{
			UserID:  enrollment.StudentID,
			Title:   title,
			Message: message,
			Type:    notifType,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			s.logger.Warn("notification create failed",
				zap.String("class_id", classID),
				zap.String("student_id", enrollment.StudentID),
				zap.Error(err))
			continue
		}
		created++
	}

	if s.metrics != nil && created > 0 {
		s.metrics.NotificationsFanned.Add(float64(created))
	}
	s.logger.Info("notification fanout complete",
		zap.String("class_id", classID),
		zap.Int("roster_size", len(roster)),
		zap.Int("created", created))
	return created, nil
}

// ListByUser returns a user's notifications, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list notifications")
	}
	return notifications, nil
}

// MarkRead marks a notification as read. The operation is idempotent and
// succeeds even when the id does not exist.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "mark notification read")
	}
	return nil
}

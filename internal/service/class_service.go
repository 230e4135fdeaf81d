package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

// ClassStore is the persistence surface the class service needs.
type ClassStore interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Class, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, id string, update models.ClassUpdate) (*models.Class, error)
}

// ClassService manages the class catalogue.
type ClassService struct {
	classes  ClassStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(classes ClassStore, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, validate: validate, logger: logger}
}

// Create validates and persists a class owned by the given teacher. New
// classes start active.
func (s *ClassService) Create(ctx context.Context, teacherID string, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := validateTimeSlot(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	class := &models.Class{
		Name:      req.Name,
		Code:      req.Code,
		TeacherID: teacherID,
		Room:      req.Room,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create class")
	}

	s.logger.Info("class created", zap.String("class_id", class.ID), zap.String("teacher_id", teacherID))
	return class, nil
}

// Get returns a class by ID.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find class")
	}
	return class, nil
}

// ListByTeacher returns the classes a teacher owns.
func (s *ClassService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Class, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list classes")
	}
	return classes, nil
}

// ListByStudent returns the classes a student is enrolled in.
func (s *ClassService) ListByStudent(ctx context.Context, studentID string) ([]models.Class, error) {
	classes, err := s.classes.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list classes")
	}
	return classes, nil
}

// Update applies a partial update, revalidating the resulting time slot.
func (s *ClassService) Update(ctx context.Context, id string, update models.ClassUpdate) (*models.Class, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start := current.StartTime
	end := current.EndTime
	if update.StartTime != nil {
		start = *update.StartTime
	}
	if update.EndTime != nil {
		end = *update.EndTime
	}
	if err := validateTimeSlot(start, end); err != nil {
		return nil, err
	}
	if update.DayOfWeek != nil && (*update.DayOfWeek < 0 || *update.DayOfWeek > 6) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be between 0 and 6")
	}

	class, err := s.classes.Update(ctx, id, update)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update class")
	}
	return class, nil
}

// validateTimeSlot checks both times parse as "HH:MM" and start precedes end.
func validateTimeSlot(start, end string) error {
	startAt, err := time.Parse("15:04", start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	endAt, err := time.Parse("15:04", end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	if !startAt.Before(endAt) {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	return nil
}

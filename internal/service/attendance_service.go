package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

// AttendanceStore is the persistence surface the attendance service needs.
type AttendanceStore interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	ListByClassAndDate(ctx context.Context, classID, date string) ([]models.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error)
	Update(ctx context.Context, id string, update models.AttendanceUpdate) (*models.Attendance, error)
}

// AttendanceService records and reports attendance marks.
type AttendanceService struct {
	attendance   AttendanceStore
	validate     *validator.Validate
	logger       *zap.Logger
	lowThreshold int
}

// NewAttendanceService constructs the attendance service. lowThreshold is
// the rate (percent) below which a summary is flagged as low attendance.
func NewAttendanceService(attendance AttendanceStore, lowThreshold int, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if lowThreshold <= 0 {
		lowThreshold = 75
	}
	return &AttendanceService{
		attendance:   attendance,
		validate:     validate,
		logger:       logger,
		lowThreshold: lowThreshold,
	}
}

// Mark appends a new attendance record. Re-marking the same student and
// date never rewrites history; readers resolve the latest mark.
func (s *AttendanceService) Mark(ctx context.Context, teacherID string, req dto.MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of present, absent, late, excused")
	}

	attendance := &models.Attendance{
		ClassID:   req.ClassID,
		StudentID: req.StudentID,
		TeacherID: teacherID,
		Date:      req.Date,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if err := s.attendance.Create(ctx, attendance); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create attendance")
	}
	return attendance, nil
}

// ListByClassAndDate returns the authoritative mark per student for a class
// on a date. Re-marked students appear once, with their latest mark.
func (s *AttendanceService) ListByClassAndDate(ctx context.Context, classID, date string) ([]models.Attendance, error) {
	records, err := s.attendance.ListByClassAndDate(ctx, classID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list attendance")
	}
	return latestPerStudent(records), nil
}

// ListByStudent returns a student's marks, most recent first.
func (s *AttendanceService) ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error) {
	records, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list attendance")
	}
	return records, nil
}

// Update edits an existing mark in place.
func (s *AttendanceService) Update(ctx context.Context, id string, update models.AttendanceUpdate) (*models.Attendance, error) {
	if update.Status != nil && !update.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of present, absent, late, excused")
	}

	attendance, err := s.attendance.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update attendance")
	}
	return attendance, nil
}

// Summary aggregates a student's marks into per-status counts and an
// attendance rate. The rate is present marks over total, rounded to the
// nearest whole percent; zero marks yields a zero rate without flagging.
func (s *AttendanceService) Summary(ctx context.Context, studentID string) (*models.AttendanceSummary, error) {
	records, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list attendance")
	}

	summary := &models.AttendanceSummary{}
	for _, record := range latestPerStudentDate(records) {
		switch record.Status {
		case models.AttendanceStatusPresent:
			summary.Present++
		case models.AttendanceStatusAbsent:
			summary.Absent++
		case models.AttendanceStatusLate:
			summary.Late++
		case models.AttendanceStatusExcused:
			summary.Excused++
		}
		summary.Total++
	}

	if summary.Total > 0 {
		summary.Rate = int(math.Round(float64(summary.Present) / float64(summary.Total) * 100))
		summary.LowAttendance = summary.Rate < s.lowThreshold
	}
	return summary, nil
}

// latestPerStudent collapses same-day duplicates to the most recent mark
// per student. Input is ordered newest first; output preserves that order.
func latestPerStudent(records []models.Attendance) []models.Attendance {
	seen := make(map[string]struct{}, len(records))
	result := make([]models.Attendance, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.StudentID]; ok {
			continue
		}
		seen[record.StudentID] = struct{}{}
		result = append(result, record)
	}
	return result
}

// latestPerStudentDate collapses duplicates to the most recent mark per
// (class, student, date) tuple. Input is ordered newest first.
func latestPerStudentDate(records []models.Attendance) []models.Attendance {
	type key struct {
		classID   string
		studentID string
		date      string
	}
	seen := make(map[key]struct{}, len(records))
	result := make([]models.Attendance, 0, len(records))
	for _, record := range records {
		k := key{record.ClassID, record.StudentID, record.Date}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, record)
	}
	return result
}

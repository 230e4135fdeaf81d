package dto

import "github.com/classpulse/classpulse-api/internal/models"

// MarkAttendanceRequest records one attendance mark.
type MarkAttendanceRequest struct {
	ClassID   string                  `json:"class_id" validate:"required"`
	StudentID string                  `json:"student_id" validate:"required"`
	Date      string                  `json:"date" validate:"required,datetime=2006-01-02"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
	Notes     *string                 `json:"notes"`
}

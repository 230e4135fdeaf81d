package dto

import "github.com/classpulse/classpulse-api/internal/models"

// ReportRequest asks for an attendance export of a class over a date range.
type ReportRequest struct {
	ClassID  string              `json:"class_id" validate:"required"`
	DateFrom string              `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string              `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Format   models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportJobResponse acknowledges job creation.
type ReportJobResponse struct {
	ID     string              `json:"id"`
	Status models.ReportStatus `json:"status"`
}

// ReportStatusResponse exposes job progress to clients.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}

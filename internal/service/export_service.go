package service

import (
	"fmt"
	"time"

	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/pkg/export"
)

var attendanceExportHeaders = []string{"Date", "Student ID", "Status", "Notes", "Marked At"}

// ExportService renders attendance rows into downloadable documents.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService() *ExportService {
	return &ExportService{
		csv: export.NewCSVExporter(),
		pdf: export.NewPDFExporter(),
	}
}

// Render produces the file bytes for the requested format.
func (s *ExportService) Render(records []models.Attendance, format models.ReportFormat, title string) ([]byte, error) {
	data := buildAttendanceDataset(records)
	switch format {
	case models.ReportFormatCSV:
		return s.csv.Render(data)
	case models.ReportFormatPDF:
		return s.pdf.Render(data, title)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func buildAttendanceDataset(records []models.Attendance) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		notes := ""
		if record.Notes != nil {
			notes = *record.Notes
		}
		rows = append(rows, map[string]string{
			"Date":       record.Date,
			"Student ID": record.StudentID,
			"Status":     string(record.Status),
			"Notes":      notes,
			"Marked At":  record.MarkedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: attendanceExportHeaders, Rows: rows}
}

package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// Attendance is a single mark for a student in a class on a date
// ("YYYY-MM-DD"). Marking is append-only; for a re-marked day the most
// recent row by marked_at is authoritative.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	ClassID   string           `db:"class_id" json:"class_id"`
	StudentID string           `db:"student_id" json:"student_id"`
	TeacherID string           `db:"teacher_id" json:"teacher_id"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Notes     *string          `db:"notes" json:"notes,omitempty"`
	MarkedAt  time.Time        `db:"marked_at" json:"marked_at"`
}

// AttendanceUpdate carries optional fields for partial updates.
type AttendanceUpdate struct {
	Status *AttendanceStatus `json:"status"`
	Notes  *string           `json:"notes"`
}

// AttendanceSummary aggregates a student's attendance counts and rate.
type AttendanceSummary struct {
	Present       int  `json:"present"`
	Absent        int  `json:"absent"`
	Late          int  `json:"late"`
	Excused       int  `json:"excused"`
	Total         int  `json:"total"`
	Rate          int  `json:"rate"`
	LowAttendance bool `json:"low_attendance"`
}

package models

import "time"

// Cancellation records a teacher calling off one session of a class.
// Date is the calendar date ("YYYY-MM-DD") the cancelled session would
// have occurred.
type Cancellation struct {
	ID              string    `db:"id" json:"id"`
	ClassID         string    `db:"class_id" json:"class_id"`
	TeacherID       string    `db:"teacher_id" json:"teacher_id"`
	Reason          string    `db:"reason" json:"reason"`
	AdditionalNotes *string   `db:"additional_notes" json:"additional_notes,omitempty"`
	WillReschedule  bool      `db:"will_reschedule" json:"will_reschedule"`
	CancelledAt     time.Time `db:"cancelled_at" json:"cancelled_at"`
	Date            string    `db:"date" json:"date"`
}

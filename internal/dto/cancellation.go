package dto

import "github.com/classpulse/classpulse-api/internal/models"

// CancelClassRequest calls off one session of a class.
type CancelClassRequest struct {
	ClassID         string  `json:"class_id" validate:"required"`
	Reason          string  `json:"reason" validate:"required"`
	AdditionalNotes *string `json:"additional_notes"`
	WillReschedule  bool    `json:"will_reschedule"`
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
}

// CancelClassResponse reports the stored cancellation together with how
// many student notifications the fanout produced.
type CancelClassResponse struct {
	Cancellation         *models.Cancellation `json:"cancellation"`
	NotificationsCreated int                  `json:"notificationsCreated"`
}

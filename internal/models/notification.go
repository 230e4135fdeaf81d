package models

import "time"

// NotificationType categorises notifications shown to users.
type NotificationType string

const (
	NotificationTypeCancellation NotificationType = "cancellation"
	NotificationTypeAnnouncement NotificationType = "announcement"
	NotificationTypeEnrollment   NotificationType = "enrollment"
)

// Valid returns true when the type is a supported value.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeCancellation, NotificationTypeAnnouncement, NotificationTypeEnrollment:
		return true
	default:
		return false
	}
}

// Notification is an in-app message addressed to a single user. IsRead
// starts false and only ever transitions to true.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Type      NotificationType `db:"type" json:"type"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

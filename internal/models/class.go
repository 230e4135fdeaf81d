package models

// Class represents a scheduled class with a static, pre-assigned time slot.
// DayOfWeek runs 0 (Sunday) through 6 (Saturday); times are "HH:MM" strings.
type Class struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Code      string `db:"code" json:"code"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	Room      string `db:"room" json:"room"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}

// ClassUpdate carries optional fields for partial class updates.
type ClassUpdate struct {
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	Room      *string `json:"room"`
	DayOfWeek *int    `json:"day_of_week"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	IsActive  *bool   `json:"is_active"`
}

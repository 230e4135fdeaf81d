package dto

// ClassEnrollmentSummary pairs a class with its current enrollment count.
type ClassEnrollmentSummary struct {
	ClassID         string `json:"classId"`
	ClassName       string `json:"className"`
	ClassCode       string `json:"classCode"`
	EnrollmentCount int    `json:"enrollmentCount"`
}

// TeacherStatsResponse is the derived, read-only teacher dashboard aggregate.
// It is computed on demand and never persisted.
type TeacherStatsResponse struct {
	ClassEnrollments  []ClassEnrollmentSummary `json:"classEnrollments"`
	ActiveClasses     int                      `json:"activeClasses"`
	WeekCancellations int                      `json:"weekCancellations"`
}

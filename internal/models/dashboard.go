package models

import "time"

// DashboardStats summarises the admin landing page counters.
type DashboardStats struct {
	TotalTeachers  int            `json:"total_teachers"`
	TotalLectures  int            `json:"total_lectures"`
	ActiveLectures int            `json:"active_lectures"`
	NextLecture    *LectureDetail `json:"next_lecture,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// WeeklySchedule groups lecture details by weekday, Monday first.
type WeeklySchedule struct {
	Days map[string][]LectureDetail `json:"days"`
}

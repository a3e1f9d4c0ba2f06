package models

import "time"

// Weekday names accepted for Lecture.DayOfWeek, Monday first.
var DaysOfWeek = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Lecture types accepted for Lecture.LectureType.
const (
	LectureTypeLecture  = "Lecture"
	LectureTypeLab      = "Lab"
	LectureTypeTutorial = "Tutorial"
	LectureTypeSeminar  = "Seminar"
)

// LectureTypes lists every valid lecture type.
var LectureTypes = []string{LectureTypeLecture, LectureTypeLab, LectureTypeTutorial, LectureTypeSeminar}

// IsValidDayOfWeek reports whether day is one of the seven weekday names.
func IsValidDayOfWeek(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// IsValidLectureType reports whether t is a recognised lecture type.
func IsValidLectureType(t string) bool {
	for _, lt := range LectureTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// Lecture represents a weekly recurring lecture slot. Start and end times are
// persisted as instants anchored to a fixed reference date; only their
// time-of-day component is meaningful.
type Lecture struct {
	ID          string    `db:"id" json:"id"`
	Subject     string    `db:"subject" json:"subject"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Classroom   string    `db:"classroom" json:"classroom"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	LectureType string    `db:"lecture_type" json:"lecture_type"`
	Semester    string    `db:"semester" json:"semester"`
	Course      string    `db:"course" json:"course"`
	Chapter     *string   `db:"chapter" json:"chapter,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// LectureDetail is a Lecture joined with its (possibly deleted) teacher. The
// teacher reference is weak: a dangling teacher_id resolves to nil fields, and
// clients render a "no teacher" fallback.
type LectureDetail struct {
	Lecture
	TeacherName       *string `db:"teacher_name" json:"teacher_name,omitempty"`
	TeacherEmail      *string `db:"teacher_email" json:"teacher_email,omitempty"`
	TeacherDepartment *string `db:"teacher_department" json:"teacher_department,omitempty"`
}

// LectureFilter describes query params for listing lectures.
type LectureFilter struct {
	TeacherID string
	Classroom string
	DayOfWeek string
	Semester  string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
}

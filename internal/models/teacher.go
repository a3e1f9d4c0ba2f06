package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor record.
type Teacher struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	Department     string         `db:"department" json:"department"`
	Phone          *string        `db:"phone" json:"phone,omitempty"`
	Office         *string        `db:"office" json:"office,omitempty"`
	ProfileImage   *string        `db:"profile_image" json:"profile_image,omitempty"`
	Subjects       pq.StringArray `db:"subjects" json:"subjects"`
	Experience     int            `db:"experience" json:"experience"`
	Qualifications pq.StringArray `db:"qualifications" json:"qualifications"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

package schedule

import "github.com/digiboard/digiboard-api/internal/models"

// Candidate is a lecture being created or edited, reduced to the fields that
// participate in conflict detection. ID is empty on create; on update it
// excludes the lecture's own row from the comparison set.
type Candidate struct {
	ID        string
	TeacherID string
	Classroom string
	DayOfWeek string
	Start     TimeOfDay
	End       TimeOfDay
}

// Report partitions conflicting lectures by the dimension they collide on. A
// lecture sharing both the teacher and the classroom appears in both slices.
type Report struct {
	TeacherConflicts   []models.Lecture `json:"teacher_conflicts"`
	ClassroomConflicts []models.Lecture `json:"classroom_conflicts"`
}

// HasConflicts reports whether any dimension recorded a collision.
func (r Report) HasConflicts() bool {
	return len(r.TeacherConflicts) > 0 || len(r.ClassroomConflicts) > 0
}

// Total counts distinct conflicting lectures across both dimensions.
func (r Report) Total() int {
	seen := make(map[string]struct{}, len(r.TeacherConflicts)+len(r.ClassroomConflicts))
	for _, l := range r.TeacherConflicts {
		seen[l.ID] = struct{}{}
	}
	for _, l := range r.ClassroomConflicts {
		seen[l.ID] = struct{}{}
	}
	return len(seen)
}

// Overlaps applies the half-open interval rule: [s1,e1) and [s2,e2) collide
// iff s1 < e2 && s2 < e1. Touching endpoints (e1 == s2) do not collide.
func Overlaps(s1, e1, s2, e2 TimeOfDay) bool {
	return s1.Minutes() < e2.Minutes() && s2.Minutes() < e1.Minutes()
}

// FindConflicts compares the candidate against every existing lecture and
// returns all collisions, not just the first. Inactive lectures never
// conflict, lectures on other days never conflict, and the candidate's own
// row (when editing) is skipped. Pure query: no side effects, no failures.
// The caller decides policy - block, warn, or allow.
func FindConflicts(candidate Candidate, existing []models.Lecture) Report {
	var report Report

	for _, lecture := range existing {
		if !lecture.IsActive {
			continue
		}
		if candidate.ID != "" && lecture.ID == candidate.ID {
			continue
		}
		if lecture.DayOfWeek != candidate.DayOfWeek {
			continue
		}

		sameTeacher := lecture.TeacherID == candidate.TeacherID
		sameClassroom := lecture.Classroom == candidate.Classroom
		if !sameTeacher && !sameClassroom {
			continue
		}

		start := FromInstant(lecture.StartTime)
		end := FromInstant(lecture.EndTime)
		if !Overlaps(candidate.Start, candidate.End, start, end) {
			continue
		}

		if sameTeacher {
			report.TeacherConflicts = append(report.TeacherConflicts, lecture)
		}
		if sameClassroom {
			report.ClassroomConflicts = append(report.ClassroomConflicts, lecture)
		}
	}

	return report
}

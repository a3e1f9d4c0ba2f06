package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiboard/digiboard-api/internal/models"
)

func lectureAt(id, teacherID, classroom, day, start, end string, active bool) models.Lecture {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return models.Lecture{
		ID:        id,
		Subject:   "Algorithms",
		TeacherID: teacherID,
		Classroom: classroom,
		DayOfWeek: day,
		StartTime: s.Anchor(),
		EndTime:   e.Anchor(),
		IsActive:  active,
	}
}

func candidateAt(id, teacherID, classroom, day, start, end string) Candidate {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return Candidate{ID: id, TeacherID: teacherID, Classroom: classroom, DayOfWeek: day, Start: s, End: e}
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"nested", "09:00", "10:00", "09:15", "09:45", true},
		{"partial", "09:00", "10:00", "09:30", "10:30", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"touching", "09:00", "10:00", "10:00", "11:00", false},
		{"disjoint", "09:00", "10:00", "11:00", "12:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s1, _ := ParseTimeOfDay(tc.s1)
			e1, _ := ParseTimeOfDay(tc.e1)
			s2, _ := ParseTimeOfDay(tc.s2)
			e2, _ := ParseTimeOfDay(tc.e2)

			assert.Equal(t, tc.want, Overlaps(s1, e1, s2, e2))
			assert.Equal(t, Overlaps(s1, e1, s2, e2), Overlaps(s2, e2, s1, e1), "overlap must be symmetric")
		})
	}
}

func TestFindConflictsTeacherDimension(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", true),
	}

	report := FindConflicts(candidateAt("", "t1", "202", "Monday", "09:30", "10:30"), existing)

	require.Len(t, report.TeacherConflicts, 1)
	assert.Empty(t, report.ClassroomConflicts)
	assert.Equal(t, "l1", report.TeacherConflicts[0].ID)
	assert.True(t, report.HasConflicts())
	assert.Equal(t, 1, report.Total())
}

func TestFindConflictsClassroomDimension(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", true),
	}

	report := FindConflicts(candidateAt("", "t2", "101", "Monday", "09:45", "10:15"), existing)

	assert.Empty(t, report.TeacherConflicts)
	require.Len(t, report.ClassroomConflicts, 1)
	assert.Equal(t, "l1", report.ClassroomConflicts[0].ID)
}

func TestFindConflictsBothDimensions(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", true),
	}

	report := FindConflicts(candidateAt("", "t1", "101", "Monday", "09:30", "10:30"), existing)

	assert.Len(t, report.TeacherConflicts, 1)
	assert.Len(t, report.ClassroomConflicts, 1)
	// Same lecture on both dimensions counts once.
	assert.Equal(t, 1, report.Total())
}

func TestFindConflictsHalfOpenBoundary(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", true),
	}

	report := FindConflicts(candidateAt("", "t1", "101", "Monday", "10:00", "11:00"), existing)

	assert.False(t, report.HasConflicts(), "touching endpoints must not conflict")
}

func TestFindConflictsDayIsolation(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Tuesday", "09:00", "10:00", true),
	}

	report := FindConflicts(candidateAt("", "t1", "101", "Monday", "09:00", "10:00"), existing)

	assert.False(t, report.HasConflicts(), "identical times on different days never conflict")
}

func TestFindConflictsSelfExclusion(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", true),
	}

	report := FindConflicts(candidateAt("l1", "t1", "101", "Monday", "09:00", "10:00"), existing)

	assert.False(t, report.HasConflicts(), "a lecture must not conflict with itself when edited in place")
}

func TestFindConflictsInactiveExcluded(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", false),
	}

	report := FindConflicts(candidateAt("", "t1", "101", "Monday", "09:00", "10:00"), existing)

	assert.False(t, report.HasConflicts(), "inactive lectures never appear as conflicts")
}

func TestFindConflictsReportsEveryMatch(t *testing.T) {
	existing := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", true),
		lectureAt("l2", "t1", "102", "Monday", "09:15", "10:15", true),
		lectureAt("l3", "t1", "103", "Monday", "09:30", "10:30", true),
	}

	// Each lecture, checked as if edited, must see the other two.
	for _, own := range existing {
		report := FindConflicts(candidateAt(own.ID, "t1", own.Classroom, "Monday",
			FromInstant(own.StartTime).String(), FromInstant(own.EndTime).String()), existing)
		assert.Len(t, report.TeacherConflicts, 2, own.ID)
	}
}

func TestFindConflictsEmptyExistingSet(t *testing.T) {
	report := FindConflicts(candidateAt("", "t1", "101", "Monday", "09:00", "10:00"), nil)

	assert.False(t, report.HasConflicts())
	assert.Zero(t, report.Total())
}

package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiboard/digiboard-api/internal/models"
)

func instantAt(day, clock string) Instant {
	tod, err := ParseTimeOfDay(clock)
	if err != nil {
		panic(err)
	}
	return Instant{DayOfWeek: day, Time: tod}
}

func TestNextOccurrenceLaterTodayWins(t *testing.T) {
	lectures := []models.Lecture{
		lectureAt("past", "t1", "101", "Wednesday", "13:00", "14:00", true),
		lectureAt("today", "t1", "101", "Wednesday", "15:00", "16:00", true),
		lectureAt("tomorrow", "t1", "101", "Thursday", "09:00", "10:00", true),
	}

	next := NextOccurrence(instantAt("Wednesday", "14:00"), lectures)

	require.NotNil(t, next)
	assert.Equal(t, "today", next.ID, "a lecture later today beats any future day")
}

func TestNextOccurrenceExcludesLectureStartingNow(t *testing.T) {
	lectures := []models.Lecture{
		lectureAt("now", "t1", "101", "Wednesday", "14:00", "15:00", true),
		lectureAt("later", "t1", "101", "Wednesday", "16:00", "17:00", true),
	}

	next := NextOccurrence(instantAt("Wednesday", "14:00"), lectures)

	require.NotNil(t, next)
	assert.Equal(t, "later", next.ID, "start must be strictly after now")
}

func TestNextOccurrenceWrapsForwardThroughWeek(t *testing.T) {
	lectures := []models.Lecture{
		lectureAt("tue", "t1", "101", "Tuesday", "09:00", "10:00", true),
	}

	// Friday evening: the scan walks Sat, Sun, Mon, Tue.
	next := NextOccurrence(instantAt("Friday", "18:00"), lectures)

	require.NotNil(t, next)
	assert.Equal(t, "tue", next.ID)
}

func TestNextOccurrenceWrapsBackToEarlierToday(t *testing.T) {
	// The only lecture already happened today; the wrap must come all the
	// way around to today again.
	lectures := []models.Lecture{
		lectureAt("morning", "t1", "101", "Monday", "08:00", "09:00", true),
	}

	next := NextOccurrence(instantAt("Monday", "12:00"), lectures)

	require.NotNil(t, next)
	assert.Equal(t, "morning", next.ID)
}

func TestNextOccurrencePicksEarliestOnFirstNonEmptyDay(t *testing.T) {
	lectures := []models.Lecture{
		lectureAt("late", "t1", "101", "Thursday", "14:00", "15:00", true),
		lectureAt("early", "t2", "102", "Thursday", "08:00", "09:00", true),
		lectureAt("nextweek", "t1", "101", "Friday", "07:00", "08:00", true),
	}

	next := NextOccurrence(instantAt("Wednesday", "18:00"), lectures)

	require.NotNil(t, next)
	assert.Equal(t, "early", next.ID)
}

func TestNextOccurrenceSkipsInactive(t *testing.T) {
	lectures := []models.Lecture{
		lectureAt("inactive", "t1", "101", "Wednesday", "15:00", "16:00", false),
		lectureAt("active", "t1", "101", "Thursday", "09:00", "10:00", true),
	}

	next := NextOccurrence(instantAt("Wednesday", "14:00"), lectures)

	require.NotNil(t, next)
	assert.Equal(t, "active", next.ID)
}

func TestNextOccurrenceEmptySetIsNone(t *testing.T) {
	assert.Nil(t, NextOccurrence(instantAt("Monday", "09:00"), nil))
	assert.Nil(t, NextOccurrence(instantAt("Monday", "09:00"), []models.Lecture{}))
}

func TestNextOccurrenceUnknownDayIsNone(t *testing.T) {
	lectures := []models.Lecture{
		lectureAt("l1", "t1", "101", "Monday", "09:00", "10:00", true),
	}
	assert.Nil(t, NextOccurrence(Instant{DayOfWeek: "Someday", Time: TimeOfDay{Hour: 9}}, lectures))
}

func TestNextOccurrenceTieBreakIsDeterministic(t *testing.T) {
	lectures := []models.Lecture{
		lectureAt("b", "t2", "102", "Thursday", "09:00", "10:00", true),
		lectureAt("a", "t1", "101", "Thursday", "09:00", "10:00", true),
	}

	first := NextOccurrence(instantAt("Wednesday", "18:00"), lectures)
	require.NotNil(t, first)

	// Exact ties have no specified winner, only a stable one.
	for i := 0; i < 5; i++ {
		again := NextOccurrence(instantAt("Wednesday", "18:00"), lectures)
		require.NotNil(t, again)
		assert.Equal(t, first.ID, again.ID)
	}
}

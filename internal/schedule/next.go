package schedule

import (
	"sort"

	"github.com/digiboard/digiboard-api/internal/models"
)

// Instant is a wall-clock moment reduced to what the resolver needs: a
// weekday name and a time-of-day. The caller's clock produces it, keeping
// this package free of time.Now.
type Instant struct {
	DayOfWeek string
	Time      TimeOfDay
}

// NextOccurrence finds the soonest upcoming active lecture relative to now.
// Lectures later today (start strictly after now) win over any future day;
// otherwise days are scanned forward from tomorrow, wrapping through the week
// back to today, and the earliest lecture of the first non-empty day is
// returned. Ties on start time break deterministically by id. An empty active
// set resolves to nil.
func NextOccurrence(now Instant, lectures []models.Lecture) *models.Lecture {
	if today := earliestAfter(lectures, now.DayOfWeek, &now.Time); today != nil {
		return today
	}

	todayIdx := dayIndex(now.DayOfWeek)
	if todayIdx < 0 {
		return nil
	}

	// Tomorrow through the wrap back to today, seven steps.
	for step := 1; step <= len(models.DaysOfWeek); step++ {
		day := models.DaysOfWeek[(todayIdx+step)%len(models.DaysOfWeek)]
		if found := earliestAfter(lectures, day, nil); found != nil {
			return found
		}
	}

	return nil
}

// earliestAfter returns the earliest active lecture on day whose start is
// strictly after the cutoff. A nil cutoff admits the whole day.
func earliestAfter(lectures []models.Lecture, day string, after *TimeOfDay) *models.Lecture {
	candidates := make([]models.Lecture, 0, len(lectures))
	for _, lecture := range lectures {
		if !lecture.IsActive || lecture.DayOfWeek != day {
			continue
		}
		if after != nil && !FromInstant(lecture.StartTime).After(*after) {
			continue
		}
		candidates = append(candidates, lecture)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		si := FromInstant(candidates[i].StartTime).Minutes()
		sj := FromInstant(candidates[j].StartTime).Minutes()
		if si != sj {
			return si < sj
		}
		return candidates[i].ID < candidates[j].ID
	})

	winner := candidates[0]
	return &winner
}

func dayIndex(day string) int {
	for i, d := range models.DaysOfWeek {
		if d == day {
			return i
		}
	}
	return -1
}

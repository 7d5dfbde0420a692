package habits

import "time"

// DayOf truncates a timestamp to its calendar date at midnight UTC. All
// due-date and log-date comparisons happen on these normalized values.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// IsDueOn reports whether the habit is scheduled on the given date.
//
// Archived habits are never due. A habit is never due before its start date
// or after its end date. Daily habits are due every remaining day; weekly and
// custom habits are due only on their scheduled weekdays.
func (h *Habit) IsDueOn(date time.Time) bool {
	if h.Archived {
		return false
	}

	day := DayOf(date)
	if h.StartDate != nil && day.Before(DayOf(*h.StartDate)) {
		return false
	}
	if h.EndDate != nil && day.After(DayOf(*h.EndDate)) {
		return false
	}

	if h.Frequency == FrequencyDaily {
		return true
	}
	return h.ScheduledWeekdays.Contains(day.Weekday())
}

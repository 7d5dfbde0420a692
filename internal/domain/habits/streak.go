package habits

import (
	"sort"
	"time"
)

// CurrentStreak computes the number of consecutive completed days ending at
// the most recent completed log. Input order does not matter.
//
// The scan walks the history newest-first. The anchor is the first completed
// entry found, so a not-yet-completed log for today does not zero out a
// streak accrued through yesterday. Once anchored, each log must land exactly
// one day earlier and be completed; a log strictly earlier than the expected
// date marks a gap and ends the scan.
func CurrentStreak(logs []HabitLog) int {
	if len(logs) == 0 {
		return 0
	}

	sorted := sortedByDateDesc(logs)

	streak := 0
	var expected time.Time
	anchored := false

	for _, log := range sorted {
		if !anchored {
			if log.Status == StatusCompleted {
				streak = 1
				expected = AddDays(DayOf(log.LogDate), -1)
				anchored = true
			}
			continue
		}

		if SameDay(log.LogDate, expected) && log.Status == StatusCompleted {
			streak++
			expected = AddDays(expected, -1)
			continue
		}
		if DayOf(log.LogDate).Before(expected) {
			break
		}
		// A non-completed entry on the expected date falls through without
		// advancing, so the next older log terminates the scan as a gap.
	}

	return streak
}

// LongestStreak computes the longest run of consecutive completed days across
// the entire history. It applies the same contiguity rules as CurrentStreak
// but never stops at a gap: the running length resets and the scan continues.
func LongestStreak(logs []HabitLog) int {
	if len(logs) == 0 {
		return 0
	}

	sorted := sortedByDateDesc(logs)

	best := 0
	run := 0
	var expected time.Time
	anchored := false

	for _, log := range sorted {
		if log.Status != StatusCompleted {
			run = 0
			anchored = false
			continue
		}

		if anchored && SameDay(log.LogDate, expected) {
			run++
		} else {
			run = 1
		}
		expected = AddDays(DayOf(log.LogDate), -1)
		anchored = true

		if run > best {
			best = run
		}
	}

	return best
}

func sortedByDateDesc(logs []HabitLog) []HabitLog {
	sorted := make([]HabitLog, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LogDate.After(sorted[j].LogDate)
	})
	return sorted
}

package habits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func completedOn(y int, m time.Month, d int) HabitLog {
	return HabitLog{LogDate: date(y, m, d), Status: StatusCompleted}
}

func missedOn(y int, m time.Month, d int) HabitLog {
	return HabitLog{LogDate: date(y, m, d), Status: StatusMissed}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name     string
		logs     []HabitLog
		expected int
	}{
		{
			name:     "empty history",
			logs:     nil,
			expected: 0,
		},
		{
			name:     "single completed log",
			logs:     []HabitLog{completedOn(2024, 1, 1)},
			expected: 1,
		},
		{
			name: "five consecutive completed days",
			logs: []HabitLog{
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 2),
				completedOn(2024, 1, 3),
				completedOn(2024, 1, 4),
				completedOn(2024, 1, 5),
			},
			expected: 5,
		},
		{
			name: "gap resets the current streak",
			logs: []HabitLog{
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 2),
				completedOn(2024, 1, 3),
				// Jan 4 missing
				completedOn(2024, 1, 5),
				completedOn(2024, 1, 6),
			},
			expected: 2,
		},
		{
			name: "missed log breaks the run like a gap",
			logs: []HabitLog{
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 2),
				missedOn(2024, 1, 3),
				completedOn(2024, 1, 4),
			},
			expected: 1,
		},
		{
			name: "not yet completed today keeps yesterday's streak",
			logs: []HabitLog{
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 2),
				completedOn(2024, 1, 3),
				{LogDate: date(2024, 1, 4), Status: StatusPartial},
			},
			expected: 3,
		},
		{
			name: "input order does not matter",
			logs: []HabitLog{
				completedOn(2024, 1, 3),
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 2),
			},
			expected: 3,
		},
		{
			name: "no completed logs at all",
			logs: []HabitLog{
				missedOn(2024, 1, 1),
				{LogDate: date(2024, 1, 2), Status: StatusSkipped},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CurrentStreak(tt.logs))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name     string
		logs     []HabitLog
		expected int
	}{
		{
			name:     "empty history",
			logs:     nil,
			expected: 0,
		},
		{
			name: "longest run survives a later gap",
			logs: []HabitLog{
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 2),
				completedOn(2024, 1, 3),
				completedOn(2024, 1, 4),
				// Jan 5 missing
				completedOn(2024, 1, 6),
				completedOn(2024, 1, 7),
			},
			expected: 4,
		},
		{
			name: "equals current streak for an unbroken run",
			logs: []HabitLog{
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 2),
			},
			expected: 2,
		},
		{
			name: "missed entries split runs",
			logs: []HabitLog{
				completedOn(2024, 1, 1),
				missedOn(2024, 1, 2),
				completedOn(2024, 1, 3),
				completedOn(2024, 1, 4),
				completedOn(2024, 1, 5),
				missedOn(2024, 1, 6),
				completedOn(2024, 1, 7),
			},
			expected: 3,
		},
		{
			name: "input order does not matter",
			logs: []HabitLog{
				completedOn(2024, 1, 7),
				completedOn(2024, 1, 2),
				completedOn(2024, 1, 1),
				completedOn(2024, 1, 6),
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LongestStreak(tt.logs))
		})
	}
}

func TestLongestStreakNeverBelowCurrent(t *testing.T) {
	logs := []HabitLog{
		completedOn(2024, 2, 1),
		completedOn(2024, 2, 2),
		missedOn(2024, 2, 3),
		completedOn(2024, 2, 4),
		completedOn(2024, 2, 5),
		completedOn(2024, 2, 6),
	}

	assert.GreaterOrEqual(t, LongestStreak(logs), CurrentStreak(logs))
	assert.Equal(t, 3, CurrentStreak(logs))
	assert.Equal(t, 3, LongestStreak(logs))
}

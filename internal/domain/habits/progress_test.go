package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestClassifyQuantified(t *testing.T) {
	habit := &Habit{DailyTarget: intPtr(5)}

	tests := []struct {
		name              string
		log               *HabitLog
		expectedLogged    bool
		expectedCompleted bool
		expectedProgress  float64
	}{
		{
			name:              "value at target completes",
			log:               &HabitLog{Status: StatusCompleted, Value: intPtr(5)},
			expectedLogged:    true,
			expectedCompleted: true,
			expectedProgress:  1.0,
		},
		{
			name:              "value above target clamps progress to 1",
			log:               &HabitLog{Status: StatusCompleted, Value: intPtr(8)},
			expectedLogged:    true,
			expectedCompleted: true,
			expectedProgress:  1.0,
		},
		{
			name:              "value below target is partial progress",
			log:               &HabitLog{Status: StatusPartial, Value: intPtr(3)},
			expectedLogged:    true,
			expectedCompleted: false,
			expectedProgress:  0.6,
		},
		{
			name:              "log without value has zero progress",
			log:               &HabitLog{Status: StatusSkipped},
			expectedLogged:    true,
			expectedCompleted: false,
			expectedProgress:  0,
		},
		{
			name:              "no log means missed",
			log:               nil,
			expectedLogged:    false,
			expectedCompleted: false,
			expectedProgress:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Classify(habit, tt.log)
			assert.Equal(t, tt.expectedLogged, eval.Logged)
			assert.Equal(t, tt.expectedCompleted, eval.Completed)
			assert.InDelta(t, tt.expectedProgress, eval.Progress, 1e-9)
		})
	}
}

func TestClassifyBinary(t *testing.T) {
	habit := &Habit{} // no daily target

	tests := []struct {
		name              string
		log               *HabitLog
		expectedStatus    LogStatus
		expectedCompleted bool
		expectedProgress  float64
	}{
		{
			name:              "completed status is taken verbatim",
			log:               &HabitLog{Status: StatusCompleted},
			expectedStatus:    StatusCompleted,
			expectedCompleted: true,
			expectedProgress:  1.0,
		},
		{
			name:              "skipped status stays not completed",
			log:               &HabitLog{Status: StatusSkipped},
			expectedStatus:    StatusSkipped,
			expectedCompleted: false,
			expectedProgress:  0,
		},
		{
			name:              "missing log classifies as missed",
			log:               nil,
			expectedStatus:    StatusMissed,
			expectedCompleted: false,
			expectedProgress:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Classify(habit, tt.log)
			assert.Equal(t, tt.expectedStatus, eval.Status)
			assert.Equal(t, tt.expectedCompleted, eval.Completed)
			assert.InDelta(t, tt.expectedProgress, eval.Progress, 1e-9)
		})
	}
}

func TestClassifyZeroTargetIsBinary(t *testing.T) {
	habit := &Habit{DailyTarget: intPtr(0)}

	eval := Classify(habit, &HabitLog{Status: StatusCompleted})
	assert.True(t, eval.Completed)
	assert.Equal(t, 1.0, eval.Progress)
}

func TestDeriveStatus(t *testing.T) {
	quantified := &Habit{DailyTarget: intPtr(5)}
	binary := &Habit{}

	tests := []struct {
		name     string
		habit    *Habit
		value    *int
		fallback LogStatus
		expected LogStatus
	}{
		{"quantified at target", quantified, intPtr(5), StatusSkipped, StatusCompleted},
		{"quantified over target", quantified, intPtr(7), StatusSkipped, StatusCompleted},
		{"quantified below target", quantified, intPtr(2), StatusSkipped, StatusPartial},
		{"quantified zero uses fallback", quantified, intPtr(0), StatusSkipped, StatusSkipped},
		{"quantified without value uses fallback", quantified, nil, StatusMissed, StatusMissed},
		{"binary positive value completes", binary, intPtr(1), StatusSkipped, StatusCompleted},
		{"binary without value uses fallback", binary, nil, StatusSkipped, StatusSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStatus(tt.habit, tt.value, tt.fallback))
		})
	}
}

// The status written by DeriveStatus must classify back to the same
// completion truth Classify derives from the value.
func TestDeriveStatusAgreesWithClassify(t *testing.T) {
	habit := &Habit{DailyTarget: intPtr(10)}

	for _, value := range []int{0, 1, 5, 9, 10, 15} {
		v := value
		status := DeriveStatus(habit, &v, StatusSkipped)
		eval := Classify(habit, &HabitLog{Status: status, Value: &v})

		assert.Equal(t, v >= 10, eval.Completed, "value %d", v)
		assert.Equal(t, status == StatusCompleted, eval.Completed, "value %d", v)
	}
}

package handlers

import (
	"fmt"
	"time"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/dto"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/domain/habits"
)

// HabitToResponse converts a domain habit to its API representation
func HabitToResponse(h *habits.Habit) *dto.HabitResponse {
	resp := &dto.HabitResponse{
		ID:          h.ID,
		UserID:      h.UserID,
		Name:        h.Name,
		Description: h.Description,
		Kind:        string(h.Kind),
		Frequency:   string(h.Frequency),
		DailyTarget: h.DailyTarget,
		Archived:    h.Archived,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}

	if len(h.ScheduledWeekdays) > 0 {
		resp.ScheduledWeekdays = weekdaysToInts(h.ScheduledWeekdays)
	}
	if h.StartDate != nil {
		s := h.StartDate.Format(dto.DateFormat)
		resp.StartDate = &s
	}
	if h.EndDate != nil {
		s := h.EndDate.Format(dto.DateFormat)
		resp.EndDate = &s
	}

	return resp
}

// LogToResponse converts a domain habit log to its API representation
func LogToResponse(l *habits.HabitLog) *dto.HabitLogResponse {
	return &dto.HabitLogResponse{
		ID:        l.ID,
		HabitID:   l.HabitID,
		Date:      l.LogDate.Format(dto.DateFormat),
		Status:    string(l.Status),
		Value:     l.Value,
		CreatedAt: l.CreatedAt,
	}
}

// DueTodayItemToResponse converts a due-today row to its API representation
func DueTodayItemToResponse(item *habits.DueTodayItem) dto.DueTodayItemResponse {
	resp := dto.DueTodayItemResponse{
		Habit:     *HabitToResponse(&item.Habit),
		Status:    string(item.Status),
		Completed: item.Completed,
		Progress:  item.Progress,
	}
	if item.Log != nil {
		resp.Log = LogToResponse(item.Log)
	}
	return resp
}

func weekdaysToInts(set habits.WeekdaySet) []int {
	out := make([]int, len(set))
	for i, d := range set {
		out[i] = int(d)
	}
	return out
}

func intsToWeekdays(values []int) (habits.WeekdaySet, error) {
	out := make(habits.WeekdaySet, len(values))
	for i, v := range values {
		if v < 0 || v > 6 {
			return nil, fmt.Errorf("invalid weekday value %d", v)
		}
		out[i] = time.Weekday(v)
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dto.DateFormat, s)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

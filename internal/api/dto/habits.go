package dto

import (
	"time"

	"github.com/google/uuid"
)

// DateFormat is the wire format for calendar dates
const DateFormat = "2006-01-02"

// CreateHabitRequest represents the request to create a new habit
type CreateHabitRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Kind              string  `json:"kind"`
	Frequency         string  `json:"frequency"`
	ScheduledWeekdays []int   `json:"scheduled_weekdays"`
	DailyTarget       *int    `json:"daily_target"`
	StartDate         *string `json:"start_date"`
	EndDate           *string `json:"end_date"`
}

// UpdateHabitRequest represents the request to update an existing habit
type UpdateHabitRequest struct {
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	Kind              *string `json:"kind,omitempty"`
	Frequency         *string `json:"frequency,omitempty"`
	ScheduledWeekdays *[]int  `json:"scheduled_weekdays,omitempty"`
	DailyTarget       *int    `json:"daily_target,omitempty"`
	StartDate         *string `json:"start_date,omitempty"`
	EndDate           *string `json:"end_date,omitempty"`
}

// RecordProgressRequest represents the request to log progress for a date
type RecordProgressRequest struct {
	Date   string  `json:"date" binding:"required"`
	Value  *int    `json:"value,omitempty"`
	Status *string `json:"status,omitempty"`
}

// HabitResponse represents a habit in API responses
type HabitResponse struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Kind              string    `json:"kind"`
	Frequency         string    `json:"frequency"`
	ScheduledWeekdays []int     `json:"scheduled_weekdays,omitempty"`
	DailyTarget       *int      `json:"daily_target,omitempty"`
	StartDate         *string   `json:"start_date,omitempty"`
	EndDate           *string   `json:"end_date,omitempty"`
	Archived          bool      `json:"archived"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HabitListResponse represents the response for listing habits
type HabitListResponse struct {
	Habits     []HabitResponse `json:"habits"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// HabitLogResponse represents a habit log in API responses
type HabitLogResponse struct {
	ID        uuid.UUID `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Value     *int      `json:"value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DueTodayItemResponse represents one due habit with today's progress
type DueTodayItemResponse struct {
	Habit     HabitResponse     `json:"habit"`
	Log       *HabitLogResponse `json:"log,omitempty"`
	Status    string            `json:"status"`
	Completed bool              `json:"completed"`
	Progress  float64           `json:"progress"`
}

// DueTodayResponse represents the "today" dashboard payload
type DueTodayResponse struct {
	Date   string                 `json:"date"`
	Habits []DueTodayItemResponse `json:"habits"`
}

// HabitStatsResponse represents streak and completion statistics for a habit
type HabitStatsResponse struct {
	HabitID        uuid.UUID `json:"habit_id"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	CompletionRate float64   `json:"completion_rate"`
	TotalLogs      int       `json:"total_logs"`
}

// CompletionRateResponse represents a completion-rate query result
type CompletionRateResponse struct {
	HabitID        uuid.UUID `json:"habit_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	CompletionRate float64   `json:"completion_rate"`
}

// HeatmapResponse represents habit completion heatmap data
type HeatmapResponse struct {
	Data     map[string]int `json:"data"`
	Period   string         `json:"period"`
	MinValue int            `json:"min_value"`
	MaxValue int            `json:"max_value"`
}

// DashboardMetricsResponse represents summary metrics for the dashboard
type DashboardMetricsResponse struct {
	DueToday       int `json:"due_today"`
	CompletedToday int `json:"completed_today"`
	TotalActive    int `json:"total_active"`
	BestStreak     int `json:"best_streak"`
}

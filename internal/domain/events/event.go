package events

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard event types
const (
	EventTypeHabitUpdate     = "habit_update"
	EventTypeProgressUpdate  = "progress_update"
	EventTypeDashboardUpdate = "dashboard_update"
)

// DashboardEvent represents a dashboard-related event
type DashboardEvent struct {
	EventType string      `json:"event_type"`
	UserID    uuid.UUID   `json:"user_id"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// DashboardEventTypes defines standard event types for dashboard events
const (
	DashboardEventMetricsUpdate   = "metrics_update"
	DashboardEventCacheInvalidate = "cache_invalidate"
)

package habits

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// HabitKind distinguishes habits the user wants to build from habits to avoid.
type HabitKind string

const (
	KindDo    HabitKind = "do"
	KindAvoid HabitKind = "avoid"
)

// Frequency describes how a habit recurs.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// LogStatus classifies a single day's outcome for a habit.
type LogStatus string

const (
	StatusCompleted LogStatus = "completed"
	StatusPartial   LogStatus = "partial"
	StatusSkipped   LogStatus = "skipped"
	StatusMissed    LogStatus = "missed"
)

// WeekdaySet is the set of weekdays a weekly or custom habit is scheduled on.
// It is stored as a Postgres integer[] column; the evaluator only ever sees
// the decoded set.
type WeekdaySet []time.Weekday

// Contains reports whether the set includes the given weekday.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	for _, w := range s {
		if w == d {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer, encoding the set as a Postgres integer array.
func (s WeekdaySet) Value() (driver.Value, error) {
	arr := make(pq.Int64Array, len(s))
	for i, d := range s {
		arr[i] = int64(d)
	}
	return arr.Value()
}

// Scan implements sql.Scanner, decoding a Postgres integer array.
func (s *WeekdaySet) Scan(src interface{}) error {
	var arr pq.Int64Array
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(WeekdaySet, len(arr))
	for i, v := range arr {
		out[i] = time.Weekday(v)
	}
	*s = out
	return nil
}

// Habit represents a tracked recurring behavior.
type Habit struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name              string     `gorm:"size:255;not null"`
	Description       string     `gorm:"type:text"`
	Kind              HabitKind  `gorm:"type:varchar(16);not null;default:'do'"`
	Frequency         Frequency  `gorm:"type:varchar(16);not null;default:'daily'"`
	ScheduledWeekdays WeekdaySet `gorm:"type:integer[]"`
	DailyTarget       *int       `gorm:"default:null"`
	StartDate         *time.Time `gorm:"default:null"`
	EndDate           *time.Time `gorm:"default:null"`
	Archived          bool       `gorm:"default:false;not null"`
	CreatedAt         time.Time  `gorm:"not null;default:current_timestamp"`
	UpdatedAt         time.Time  `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

// TableName specifies the table name for the Habit model
func (Habit) TableName() string {
	return "habits"
}

// IsQuantified reports whether completion is judged against a numeric target.
// Habits without a positive target are binary: the log's status is authoritative.
func (h *Habit) IsQuantified() bool {
	return h.DailyTarget != nil && *h.DailyTarget > 0
}

// BeforeCreate is called before creating a new habit record
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now().UTC()
	h.UpdatedAt = h.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a habit record
func (h *Habit) BeforeUpdate(tx *gorm.DB) error {
	h.UpdatedAt = time.Now().UTC()
	return nil
}

// HabitLog is one dated observation of progress against a habit. At most one
// log exists per (habit_id, log_date); writes replace by that key.
type HabitLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_habit_log_day,priority:1"`
	LogDate   time.Time `gorm:"not null;uniqueIndex:idx_habit_log_day,priority:2"`
	Status    LogStatus `gorm:"type:varchar(16);not null"`
	Value     *int      `gorm:"default:null"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the HabitLog model
func (HabitLog) TableName() string {
	return "habit_logs"
}

// BeforeCreate is called before creating a new habit log record
func (l *HabitLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now().UTC()
	return nil
}

// HabitWithLogs is a read-only composite of a habit and its log history,
// constructed on read. Streak and rate figures are derived from it on demand.
type HabitWithLogs struct {
	Habit Habit      `json:"habit"`
	Logs  []HabitLog `json:"logs"`
}

// CreateHabitInput represents the input for creating a new habit
type CreateHabitInput struct {
	UserID            uuid.UUID  `json:"user_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Kind              HabitKind  `json:"kind"`
	Frequency         Frequency  `json:"frequency"`
	ScheduledWeekdays WeekdaySet `json:"scheduled_weekdays"`
	DailyTarget       *int       `json:"daily_target"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
}

// UpdateHabitInput represents the input for updating a habit
type UpdateHabitInput struct {
	Name              *string     `json:"name,omitempty"`
	Description       *string     `json:"description,omitempty"`
	Kind              *HabitKind  `json:"kind,omitempty"`
	Frequency         *Frequency  `json:"frequency,omitempty"`
	ScheduledWeekdays *WeekdaySet `json:"scheduled_weekdays,omitempty"`
	DailyTarget       *int        `json:"daily_target,omitempty"`
	StartDate         *time.Time  `json:"start_date,omitempty"`
	EndDate           *time.Time  `json:"end_date,omitempty"`
}

// RecordProgressInput represents the input for logging progress on a date.
// Status is only consulted when the derived status falls back to the caller's
// choice, e.g. an explicit skip.
type RecordProgressInput struct {
	HabitID uuid.UUID  `json:"habit_id"`
	Date    time.Time  `json:"date"`
	Value   *int       `json:"value,omitempty"`
	Status  *LogStatus `json:"status,omitempty"`
}

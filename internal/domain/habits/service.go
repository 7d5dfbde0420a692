package habits

import (
	"context"
	"fmt"
	"time"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/domain/events"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DueTodayItem is one row of the "today" dashboard: a due habit joined with
// its log for the day and the resulting classification.
type DueTodayItem struct {
	Habit     Habit     `json:"habit"`
	Log       *HabitLog `json:"log,omitempty"`
	Status    LogStatus `json:"status"`
	Completed bool      `json:"completed"`
	Progress  float64   `json:"progress"`
}

// HabitStats aggregates streak and completion-rate figures for one habit.
type HabitStats struct {
	HabitID        uuid.UUID `json:"habit_id"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	CompletionRate float64   `json:"completion_rate"`
	TotalLogs      int       `json:"total_logs"`
}

// DashboardMetrics represents summary metrics for the dashboard
type DashboardMetrics struct {
	DueToday       int `json:"due_today"`
	CompletedToday int `json:"completed_today"`
	TotalActive    int `json:"total_active"`
	BestStreak     int `json:"best_streak"`
}

type Service interface {
	CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error)
	GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error)
	GetHabitWithLogs(ctx context.Context, id uuid.UUID, start, end *time.Time) (*HabitWithLogs, error)
	ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, int64, error)
	UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error)
	DeleteHabit(ctx context.Context, id uuid.UUID) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) error

	RecordProgress(ctx context.Context, input RecordProgressInput) (*HabitLog, error)
	DueToday(ctx context.Context, userID uuid.UUID, today time.Time) ([]DueTodayItem, error)
	CompletionRate(ctx context.Context, habitID uuid.UUID, start, end time.Time) (float64, error)
	GetHabitStats(ctx context.Context, habitID uuid.UUID) (*HabitStats, error)
	GetHabitLogs(ctx context.Context, habitID uuid.UUID, start, end *time.Time) ([]HabitLog, error)

	// Heatmap related methods
	GetHeatmapData(ctx context.Context, userID uuid.UUID, period string) (map[string]int, error)

	// Dashboard metrics
	GetDashboardMetrics(ctx context.Context, userID uuid.UUID, today time.Time) (DashboardMetrics, error)

	// SynthesizeMissedLogs backfills missed logs for due dates with no entry.
	SynthesizeMissedLogs(ctx context.Context, date time.Time) (int64, error)
}

type service struct {
	repo   Repository
	redis  *cache.RedisClient
	logger *zap.Logger
}

func NewService(repo Repository, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		redis:  redis,
		logger: logger,
	}
}

// validateConfig rejects invalid habit configurations at write time so the
// evaluator and classifier stay total functions on stored habits.
func validateConfig(h *Habit) error {
	if h.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidHabitConfig)
	}
	switch h.Kind {
	case KindDo, KindAvoid:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidHabitConfig, h.Kind)
	}
	switch h.Frequency {
	case FrequencyDaily:
	case FrequencyWeekly, FrequencyCustom:
		if len(h.ScheduledWeekdays) == 0 {
			return fmt.Errorf("%w: %s frequency requires a non-empty weekday set", ErrInvalidHabitConfig, h.Frequency)
		}
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidHabitConfig, h.Frequency)
	}
	// A zero target means binary; only negative values are malformed.
	if h.DailyTarget != nil && *h.DailyTarget < 0 {
		return fmt.Errorf("%w: daily target must not be negative", ErrInvalidHabitConfig)
	}
	if h.StartDate != nil && h.EndDate != nil && DayOf(*h.EndDate).Before(DayOf(*h.StartDate)) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidHabitConfig)
	}
	return nil
}

func (s *service) CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error) {
	habit := &Habit{
		ID:                uuid.New(),
		UserID:            input.UserID,
		Name:              input.Name,
		Description:       input.Description,
		Kind:              input.Kind,
		Frequency:         input.Frequency,
		ScheduledWeekdays: input.ScheduledWeekdays,
		DailyTarget:       input.DailyTarget,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
	}
	if habit.Kind == "" {
		habit.Kind = KindDo
	}
	if habit.Frequency == "" {
		habit.Frequency = FrequencyDaily
	}

	if err := validateConfig(habit); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, habit.UserID, habit.ID, "habit_created", map[string]interface{}{
		"name": habit.Name,
	})

	return habit, nil
}

func (s *service) GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetHabitWithLogs(ctx context.Context, id uuid.UUID, start, end *time.Time) (*HabitWithLogs, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.FindLogs(ctx, id, start, end)
	if err != nil {
		return nil, err
	}
	return &HabitWithLogs{Habit: *habit, Logs: logs}, nil
}

func (s *service) ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Track if anything changed
	changed := false

	if input.Name != nil && habit.Name != *input.Name {
		habit.Name = *input.Name
		changed = true
	}
	if input.Description != nil && habit.Description != *input.Description {
		habit.Description = *input.Description
		changed = true
	}
	if input.Kind != nil && habit.Kind != *input.Kind {
		habit.Kind = *input.Kind
		changed = true
	}
	if input.Frequency != nil && habit.Frequency != *input.Frequency {
		habit.Frequency = *input.Frequency
		changed = true
	}
	if input.ScheduledWeekdays != nil {
		habit.ScheduledWeekdays = *input.ScheduledWeekdays
		changed = true
	}
	if input.DailyTarget != nil {
		habit.DailyTarget = input.DailyTarget
		changed = true
	}
	if input.StartDate != nil {
		habit.StartDate = input.StartDate
		changed = true
	}
	if input.EndDate != nil {
		habit.EndDate = input.EndDate
		changed = true
	}

	if !changed {
		return habit, nil
	}

	if err := validateConfig(habit); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	s.publishDashboardEvent(ctx, habit.UserID, habit.ID, "habit_updated", map[string]interface{}{
		"name": habit.Name,
	})

	return habit, nil
}

func (s *service) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishDashboardEvent(ctx, habit.UserID, id, "habit_deleted", map[string]interface{}{
		"name": habit.Name,
	})

	return nil
}

func (s *service) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		return err
	}

	action := "habit_archived"
	if !archived {
		action = "habit_unarchived"
	}
	s.publishDashboardEvent(ctx, habit.UserID, id, action, nil)

	return nil
}

// RecordProgress replaces or creates the log for (habit, date). The stored
// status is derived with the same rules Classify uses on read, so write-time
// and read-time classification never disagree.
func (s *service) RecordProgress(ctx context.Context, input RecordProgressInput) (*HabitLog, error) {
	habit, err := s.repo.FindByID(ctx, input.HabitID)
	if err != nil {
		return nil, err
	}

	fallback := StatusSkipped
	if input.Status != nil {
		fallback = *input.Status
	}

	log := &HabitLog{
		ID:      uuid.New(),
		HabitID: habit.ID,
		LogDate: DayOf(input.Date),
		Status:  DeriveStatus(habit, input.Value, fallback),
		Value:   input.Value,
	}

	if err := s.repo.UpsertLog(ctx, log); err != nil {
		return nil, err
	}

	// Re-read so the caller sees the surviving row, not the candidate.
	stored, err := s.repo.FindLogByDate(ctx, habit.ID, log.LogDate)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = log
	}

	s.publishDashboardEvent(ctx, habit.UserID, habit.ID, "progress_recorded", map[string]interface{}{
		"date":   log.LogDate.Format("2006-01-02"),
		"status": string(stored.Status),
	})

	return stored, nil
}

// DueToday answers "which habits are due today, and what is today's progress
// on each". It is derived purely from the active habit set and today's logs,
// so the two fetches joined here are equivalent to one combined query.
func (s *service) DueToday(ctx context.Context, userID uuid.UUID, today time.Time) ([]DueTodayItem, error) {
	habits, err := s.repo.FindActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	due := make([]Habit, 0, len(habits))
	ids := make([]uuid.UUID, 0, len(habits))
	for _, h := range habits {
		if h.IsDueOn(today) {
			due = append(due, h)
			ids = append(ids, h.ID)
		}
	}

	logs, err := s.repo.FindLogsByDate(ctx, ids, today)
	if err != nil {
		return nil, err
	}
	logsByHabit := make(map[uuid.UUID]*HabitLog, len(logs))
	for i := range logs {
		logsByHabit[logs[i].HabitID] = &logs[i]
	}

	items := make([]DueTodayItem, 0, len(due))
	for i := range due {
		h := due[i]
		log := logsByHabit[h.ID]
		eval := Classify(&h, log)
		items = append(items, DueTodayItem{
			Habit:     h,
			Log:       log,
			Status:    eval.Status,
			Completed: eval.Completed,
			Progress:  eval.Progress,
		})
	}

	s.logger.Debug("due today computed",
		zap.String("user_id", userID.String()),
		zap.Int("due_count", len(items)))

	return items, nil
}

// CompletionRate is the percentage of logs in range with completed status.
// It is a plain ratio over existing logs; days without a log do not count.
func (s *service) CompletionRate(ctx context.Context, habitID uuid.UUID, start, end time.Time) (float64, error) {
	completed, total, err := s.repo.CompletionCounts(ctx, habitID, start, end)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(completed) / float64(total) * 100, nil
}

func (s *service) GetHabitStats(ctx context.Context, habitID uuid.UUID) (*HabitStats, error) {
	habit, err := s.repo.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.FindLogs(ctx, habitID, nil, nil)
	if err != nil {
		return nil, err
	}

	stats := &HabitStats{
		HabitID:       habit.ID,
		CurrentStreak: CurrentStreak(logs),
		LongestStreak: LongestStreak(logs),
		TotalLogs:     len(logs),
	}

	completed := 0
	for _, l := range logs {
		if l.Status == StatusCompleted {
			completed++
		}
	}
	if len(logs) > 0 {
		stats.CompletionRate = float64(completed) / float64(len(logs)) * 100
	}

	return stats, nil
}

func (s *service) GetHabitLogs(ctx context.Context, habitID uuid.UUID, start, end *time.Time) ([]HabitLog, error) {
	if _, err := s.repo.FindByID(ctx, habitID); err != nil {
		return nil, err
	}
	return s.repo.FindLogs(ctx, habitID, start, end)
}

// GetHeatmapData retrieves completed-log counts per day for the heatmap view
func (s *service) GetHeatmapData(ctx context.Context, userID uuid.UUID, period string) (map[string]int, error) {
	now := time.Now().UTC()
	var startDate time.Time

	switch period {
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "week":
		startDate = now.AddDate(0, 0, -7)
	default:
		// Default to last year
		startDate = now.AddDate(-1, 0, 0)
	}

	return s.repo.GetHeatmapData(ctx, userID, startDate, now)
}

func (s *service) GetDashboardMetrics(ctx context.Context, userID uuid.UUID, today time.Time) (DashboardMetrics, error) {
	items, err := s.DueToday(ctx, userID, today)
	if err != nil {
		return DashboardMetrics{}, err
	}

	metrics := DashboardMetrics{DueToday: len(items)}
	for _, item := range items {
		if item.Completed {
			metrics.CompletedToday++
		}
	}

	habits, err := s.repo.FindActive(ctx, userID)
	if err != nil {
		return DashboardMetrics{}, err
	}
	metrics.TotalActive = len(habits)

	for _, h := range habits {
		logs, err := s.repo.FindLogs(ctx, h.ID, nil, nil)
		if err != nil {
			return DashboardMetrics{}, err
		}
		if streak := CurrentStreak(logs); streak > metrics.BestStreak {
			metrics.BestStreak = streak
		}
	}

	return metrics, nil
}

// SynthesizeMissedLogs writes a missed log for every habit that was due on
// the given date and has no entry for it. Run by the scheduler after the day
// rolls over; existing logs are never touched.
func (s *service) SynthesizeMissedLogs(ctx context.Context, date time.Time) (int64, error) {
	habits, err := s.repo.FindActiveAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active habits: %w", err)
	}

	day := DayOf(date)
	var synthesized int64
	for i := range habits {
		h := habits[i]
		if !h.IsDueOn(day) {
			continue
		}

		existing, err := s.repo.FindLogByDate(ctx, h.ID, day)
		if err != nil {
			s.logger.Error("failed to look up log during rollover",
				zap.String("habit_id", h.ID.String()), zap.Error(err))
			continue
		}
		if existing != nil {
			continue
		}

		log := &HabitLog{
			ID:      uuid.New(),
			HabitID: h.ID,
			LogDate: day,
			Status:  StatusMissed,
		}
		if err := s.repo.UpsertLog(ctx, log); err != nil {
			s.logger.Error("failed to synthesize missed log",
				zap.String("habit_id", h.ID.String()), zap.Error(err))
			continue
		}
		synthesized++
	}

	return synthesized, nil
}

func (s *service) publishDashboardEvent(ctx context.Context, userID, entityID uuid.UUID, action string, details map[string]interface{}) {
	if s.redis == nil {
		return
	}
	if details == nil {
		details = make(map[string]interface{})
	}
	details["action"] = action

	event := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Details:   details,
	}
	if err := s.redis.PublishDashboardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}

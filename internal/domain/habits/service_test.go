package habits

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepository is an in-memory Repository used to test service behavior
// without a database. Log uniqueness per (habit, date) is enforced by keying
// on the pair, mirroring the unique index the real store relies on.
type memoryRepository struct {
	habits map[uuid.UUID]*Habit
	logs   map[uuid.UUID]map[string]*HabitLog
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		habits: make(map[uuid.UUID]*Habit),
		logs:   make(map[uuid.UUID]map[string]*HabitLog),
	}
}

func dayKey(t time.Time) string {
	return DayOf(t).Format("2006-01-02")
}

func (r *memoryRepository) Create(ctx context.Context, habit *Habit) error {
	copied := *habit
	r.habits[habit.ID] = &copied
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*Habit, error) {
	h, ok := r.habits[id]
	if !ok {
		return nil, ErrHabitNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *memoryRepository) FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	var out []Habit
	for _, h := range r.habits {
		if filter.UserID != nil && h.UserID != *filter.UserID {
			continue
		}
		if !filter.IncludeArchived && h.Archived {
			continue
		}
		out = append(out, *h)
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepository) FindActive(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	var out []Habit
	for _, h := range r.habits {
		if h.UserID == userID && !h.Archived {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepository) FindActiveAll(ctx context.Context) ([]Habit, error) {
	var out []Habit
	for _, h := range r.habits {
		if !h.Archived {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, habit *Habit) error {
	if _, ok := r.habits[habit.ID]; !ok {
		return ErrHabitNotFound
	}
	copied := *habit
	r.habits[habit.ID] = &copied
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.habits[id]; !ok {
		return ErrHabitNotFound
	}
	delete(r.habits, id)
	delete(r.logs, id)
	return nil
}

func (r *memoryRepository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	h, ok := r.habits[id]
	if !ok {
		return ErrHabitNotFound
	}
	h.Archived = archived
	return nil
}

func (r *memoryRepository) FindLogs(ctx context.Context, habitID uuid.UUID, start, end *time.Time) ([]HabitLog, error) {
	var out []HabitLog
	for _, l := range r.logs[habitID] {
		if start != nil && DayOf(l.LogDate).Before(DayOf(*start)) {
			continue
		}
		if end != nil && DayOf(l.LogDate).After(DayOf(*end)) {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *memoryRepository) FindLogByDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*HabitLog, error) {
	l, ok := r.logs[habitID][dayKey(date)]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *memoryRepository) FindLogsByDate(ctx context.Context, habitIDs []uuid.UUID, date time.Time) ([]HabitLog, error) {
	var out []HabitLog
	for _, id := range habitIDs {
		if l, ok := r.logs[id][dayKey(date)]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *memoryRepository) UpsertLog(ctx context.Context, log *HabitLog) error {
	byDay, ok := r.logs[log.HabitID]
	if !ok {
		byDay = make(map[string]*HabitLog)
		r.logs[log.HabitID] = byDay
	}

	key := dayKey(log.LogDate)
	if existing, ok := byDay[key]; ok {
		existing.Status = log.Status
		existing.Value = log.Value
		return nil
	}

	copied := *log
	copied.LogDate = DayOf(log.LogDate)
	byDay[key] = &copied
	return nil
}

func (r *memoryRepository) CompletionCounts(ctx context.Context, habitID uuid.UUID, start, end time.Time) (int64, int64, error) {
	var completed, total int64
	for _, l := range r.logs[habitID] {
		day := DayOf(l.LogDate)
		if day.Before(DayOf(start)) || day.After(DayOf(end)) {
			continue
		}
		total++
		if l.Status == StatusCompleted {
			completed++
		}
	}
	return completed, total, nil
}

func (r *memoryRepository) GetHeatmapData(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (map[string]int, error) {
	out := make(map[string]int)
	for habitID, byDay := range r.logs {
		h, ok := r.habits[habitID]
		if !ok || h.UserID != userID {
			continue
		}
		for key, l := range byDay {
			if l.Status == StatusCompleted {
				out[key]++
			}
		}
	}
	return out, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, zap.NewNop())
}

func TestCreateHabitValidation(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name    string
		input   CreateHabitInput
		wantErr bool
	}{
		{
			name:    "defaults to daily do habit",
			input:   CreateHabitInput{UserID: userID, Name: "Read"},
			wantErr: false,
		},
		{
			name: "weekly habit requires weekdays",
			input: CreateHabitInput{
				UserID:    userID,
				Name:      "Gym",
				Frequency: FrequencyWeekly,
			},
			wantErr: true,
		},
		{
			name: "custom habit with weekdays is valid",
			input: CreateHabitInput{
				UserID:            userID,
				Name:              "Gym",
				Frequency:         FrequencyCustom,
				ScheduledWeekdays: WeekdaySet{time.Monday, time.Wednesday},
			},
			wantErr: false,
		},
		{
			name:    "empty name is rejected",
			input:   CreateHabitInput{UserID: userID},
			wantErr: true,
		},
		{
			name: "negative target is rejected",
			input: CreateHabitInput{
				UserID:      userID,
				Name:        "Water",
				DailyTarget: intPtr(-1),
			},
			wantErr: true,
		},
		{
			name: "end date before start date is rejected",
			input: CreateHabitInput{
				UserID:    userID,
				Name:      "Sprint",
				StartDate: datePtr(2024, 2, 1),
				EndDate:   datePtr(2024, 1, 1),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit, err := svc.CreateHabit(ctx, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHabitConfig)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, habit.ID)
			assert.NotEmpty(t, habit.Kind)
			assert.NotEmpty(t, habit.Frequency)
		})
	}
}

func TestRecordProgressUpsert(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, CreateHabitInput{
		UserID:      uuid.New(),
		Name:        "Water",
		DailyTarget: intPtr(8),
	})
	require.NoError(t, err)

	day := date(2024, 3, 10)

	// First write lands as partial progress.
	log, err := svc.RecordProgress(ctx, RecordProgressInput{
		HabitID: habit.ID,
		Date:    day,
		Value:   intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, log.Status)
	assert.Equal(t, 3, *log.Value)

	// Second write for the same date replaces, it does not duplicate.
	log, err = svc.RecordProgress(ctx, RecordProgressInput{
		HabitID: habit.ID,
		Date:    day,
		Value:   intPtr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, log.Status)

	logs, err := svc.GetHabitLogs(ctx, habit.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, StatusCompleted, logs[0].Status)
}

func TestRecordProgressExplicitSkip(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: uuid.New(), Name: "Run"})
	require.NoError(t, err)

	skipped := StatusSkipped
	log, err := svc.RecordProgress(ctx, RecordProgressInput{
		HabitID: habit.ID,
		Date:    date(2024, 3, 10),
		Status:  &skipped,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, log.Status)
}

func TestRecordProgressUnknownHabit(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	_, err := svc.RecordProgress(context.Background(), RecordProgressInput{
		HabitID: uuid.New(),
		Date:    date(2024, 3, 10),
		Value:   intPtr(1),
	})

	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestDueToday(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	userID := uuid.New()

	// 2024-01-01 is a Monday.
	monday := date(2024, 1, 1)

	daily, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: userID, Name: "a-daily"})
	require.NoError(t, err)

	_, err = svc.CreateHabit(ctx, CreateHabitInput{
		UserID:            userID,
		Name:              "b-weekend-only",
		Frequency:         FrequencyWeekly,
		ScheduledWeekdays: WeekdaySet{time.Saturday, time.Sunday},
	})
	require.NoError(t, err)

	archived, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: userID, Name: "c-archived"})
	require.NoError(t, err)
	require.NoError(t, svc.SetArchived(ctx, archived.ID, true))

	// Log completion on the daily habit.
	_, err = svc.RecordProgress(ctx, RecordProgressInput{
		HabitID: daily.ID,
		Date:    monday,
		Value:   intPtr(1),
	})
	require.NoError(t, err)

	items, err := svc.DueToday(ctx, userID, monday)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, daily.ID, items[0].Habit.ID)
	assert.True(t, items[0].Completed)
	assert.Equal(t, StatusCompleted, items[0].Status)
	require.NotNil(t, items[0].Log)
}

func TestDueTodayWithoutLogIsMissed(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: userID, Name: "Read"})
	require.NoError(t, err)

	items, err := svc.DueToday(ctx, userID, date(2024, 1, 1))
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Nil(t, items[0].Log)
	assert.False(t, items[0].Completed)
	assert.Equal(t, StatusMissed, items[0].Status)
	assert.Equal(t, 0.0, items[0].Progress)
}

func TestCompletionRate(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: uuid.New(), Name: "Run"})
	require.NoError(t, err)

	start := date(2024, 1, 1)
	end := date(2024, 1, 31)

	// No logs in range yields zero, not an error.
	rate, err := svc.CompletionRate(ctx, habit.ID, start, end)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	for i, value := range []int{1, 1, 0, 1} {
		_, err = svc.RecordProgress(ctx, RecordProgressInput{
			HabitID: habit.ID,
			Date:    AddDays(start, i),
			Value:   intPtr(value),
		})
		require.NoError(t, err)
	}

	rate, err = svc.CompletionRate(ctx, habit.ID, start, end)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, rate, 1e-9)
}

func TestGetHabitStats(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: uuid.New(), Name: "Read"})
	require.NoError(t, err)

	// Three consecutive completed days, then a gap, then two more.
	for _, d := range []int{1, 2, 3, 5, 6} {
		_, err = svc.RecordProgress(ctx, RecordProgressInput{
			HabitID: habit.ID,
			Date:    date(2024, 1, d),
			Value:   intPtr(1),
		})
		require.NoError(t, err)
	}

	stats, err := svc.GetHabitStats(ctx, habit.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, 5, stats.TotalLogs)
	assert.InDelta(t, 100.0, stats.CompletionRate, 1e-9)
}

func TestSynthesizeMissedLogs(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	userID := uuid.New()

	monday := date(2024, 1, 1)

	logged, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: userID, Name: "a-logged"})
	require.NoError(t, err)
	unlogged, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: userID, Name: "b-unlogged"})
	require.NoError(t, err)
	_, err = svc.CreateHabit(ctx, CreateHabitInput{
		UserID:            userID,
		Name:              "c-not-due",
		Frequency:         FrequencyWeekly,
		ScheduledWeekdays: WeekdaySet{time.Friday},
	})
	require.NoError(t, err)

	_, err = svc.RecordProgress(ctx, RecordProgressInput{
		HabitID: logged.ID,
		Date:    monday,
		Value:   intPtr(1),
	})
	require.NoError(t, err)

	count, err := svc.SynthesizeMissedLogs(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The unlogged due habit now carries a missed entry.
	log, err := repo.FindLogByDate(ctx, unlogged.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, StatusMissed, log.Status)

	// The existing completed log was not touched.
	log, err = repo.FindLogByDate(ctx, logged.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, StatusCompleted, log.Status)

	// Running the rollover again is a no-op.
	count, err = svc.SynthesizeMissedLogs(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGetHabitWithLogs(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: uuid.New(), Name: "Read"})
	require.NoError(t, err)

	for d := 1; d <= 4; d++ {
		_, err = svc.RecordProgress(ctx, RecordProgressInput{
			HabitID: habit.ID,
			Date:    date(2024, 1, d),
			Value:   intPtr(1),
		})
		require.NoError(t, err)
	}

	start := date(2024, 1, 2)
	end := date(2024, 1, 3)
	withLogs, err := svc.GetHabitWithLogs(ctx, habit.ID, &start, &end)
	require.NoError(t, err)

	assert.Equal(t, habit.ID, withLogs.Habit.ID)
	assert.Len(t, withLogs.Logs, 2)

	_, err = svc.GetHabitWithLogs(ctx, uuid.New(), nil, nil)
	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestUpdateHabitRevalidates(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, CreateHabitInput{UserID: uuid.New(), Name: "Read"})
	require.NoError(t, err)

	weekly := FrequencyWeekly
	_, err = svc.UpdateHabit(ctx, habit.ID, UpdateHabitInput{Frequency: &weekly})
	assert.ErrorIs(t, err, ErrInvalidHabitConfig)

	set := WeekdaySet{time.Monday}
	updated, err := svc.UpdateHabit(ctx, habit.ID, UpdateHabitInput{
		Frequency:         &weekly,
		ScheduledWeekdays: &set,
	})
	require.NoError(t, err)
	assert.Equal(t, FrequencyWeekly, updated.Frequency)
}

package habits

import (
	"context"
	"errors"
	"time"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidHabitConfig = errors.New("invalid habit configuration")
)

// HabitFilter defines the filtering options for habits
type HabitFilter struct {
	UserID          *uuid.UUID
	Name            *string
	IncludeArchived bool
	Page            int
	PageSize        int
}

// Repository defines the interface for habit persistence operations
type Repository interface {
	Create(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error)
	FindActive(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	FindActiveAll(ctx context.Context) ([]Habit, error)
	Update(ctx context.Context, habit *Habit) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) error

	FindLogs(ctx context.Context, habitID uuid.UUID, start, end *time.Time) ([]HabitLog, error)
	FindLogByDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*HabitLog, error)
	FindLogsByDate(ctx context.Context, habitIDs []uuid.UUID, date time.Time) ([]HabitLog, error)
	UpsertLog(ctx context.Context, log *HabitLog) error
	CompletionCounts(ctx context.Context, habitID uuid.UUID, start, end time.Time) (completed int64, total int64, err error)

	// Heatmap related methods
	GetHeatmapData(ctx context.Context, userID uuid.UUID, startDate time.Time, endDate time.Time) (map[string]int, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Habit, error) {
	var habit Habit
	result := r.db.WithContext(ctx).First(&habit, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *repository) FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	var habits []Habit
	var total int64
	query := r.db.WithContext(ctx).Model(&Habit{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Name != nil {
		query = query.Where("name LIKE ?", "%"+*filter.Name+"%")
	}

	if !filter.IncludeArchived {
		query = query.Where("archived = ?", false)
	}

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	// Set default PageSize if not set
	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}

	err = query.Order("created_at DESC").
		Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Find(&habits).Error
	if err != nil {
		return nil, 0, err
	}

	return habits, total, nil
}

func (r *repository) FindActive(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND archived = ?", userID, false).
		Order("created_at DESC").
		Find(&habits).Error
	return habits, err
}

// FindActiveAll returns all non-archived habits across users. Used by the
// nightly rollover that synthesizes missed logs.
func (r *repository) FindActiveAll(ctx context.Context) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Where("archived = ?", false).
		Find(&habits).Error
	return habits, err
}

func (r *repository) Update(ctx context.Context, habit *Habit) error {
	result := r.db.WithContext(ctx).Save(habit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	// Logs cascade with the habit so history does not orphan.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&HabitLog{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Habit{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrHabitNotFound
		}
		return nil
	})
}

func (r *repository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	result := r.db.WithContext(ctx).Model(&Habit{}).
		Where("id = ?", id).
		Update("archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *repository) FindLogs(ctx context.Context, habitID uuid.UUID, start, end *time.Time) ([]HabitLog, error) {
	var logs []HabitLog
	query := r.db.WithContext(ctx).Where("habit_id = ?", habitID)

	if start != nil {
		query = query.Where("log_date >= ?", DayOf(*start))
	}
	if end != nil {
		query = query.Where("log_date <= ?", DayOf(*end))
	}

	err := query.Order("log_date ASC").Find(&logs).Error
	return logs, err
}

// FindLogByDate returns the log for the given day, or nil when none exists.
// Absence is a normal result, not an error.
func (r *repository) FindLogByDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*HabitLog, error) {
	var log HabitLog
	result := r.db.WithContext(ctx).
		Where("habit_id = ? AND log_date = ?", habitID, DayOf(date)).
		First(&log)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &log, nil
}

func (r *repository) FindLogsByDate(ctx context.Context, habitIDs []uuid.UUID, date time.Time) ([]HabitLog, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}
	var logs []HabitLog
	err := r.db.WithContext(ctx).
		Where("habit_id IN ? AND log_date = ?", habitIDs, DayOf(date)).
		Find(&logs).Error
	return logs, err
}

// UpsertLog writes a log with replace-by-(habit_id, log_date) semantics. The
// unique index on that pair makes concurrent writers converge on one row.
func (r *repository) UpsertLog(ctx context.Context, log *HabitLog) error {
	log.LogDate = DayOf(log.LogDate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "log_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "value"}),
		}).
		Create(log).Error
}

func (r *repository) CompletionCounts(ctx context.Context, habitID uuid.UUID, start, end time.Time) (int64, int64, error) {
	var completed, total int64

	base := r.db.WithContext(ctx).Model(&HabitLog{}).
		Where("habit_id = ? AND log_date BETWEEN ? AND ?", habitID, DayOf(start), DayOf(end))

	if err := base.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := base.Where("status = ?", StatusCompleted).Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return completed, total, nil
}

func (r *repository) GetHeatmapData(ctx context.Context, userID uuid.UUID, startDate time.Time, endDate time.Time) (map[string]int, error) {
	var results []struct {
		Date           string
		CompletedCount int
	}

	// Format the date as YYYY-MM-DD string in the database query
	query := `
		SELECT
			TO_CHAR(l.log_date, 'YYYY-MM-DD') AS date,
			COUNT(*) AS completed_count
		FROM
			habit_logs l
			JOIN habits h ON h.id = l.habit_id
		WHERE
			h.user_id = ?
			AND l.status = ?
			AND l.log_date BETWEEN ? AND ?
		GROUP BY
			TO_CHAR(l.log_date, 'YYYY-MM-DD')
		ORDER BY
			date;
	`

	err := r.db.WithContext(ctx).Raw(query, userID, StatusCompleted, DayOf(startDate), DayOf(endDate)).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	heatmapData := make(map[string]int)
	for _, result := range results {
		heatmapData[result.Date] = result.CompletedCount
	}

	return heatmapData, nil
}

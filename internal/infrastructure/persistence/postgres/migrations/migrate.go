package migrations

import (
	"fmt"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/domain/habits"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/persistence/postgres/connection"
)

// Migrate runs schema migrations for all domain models. The unique index on
// (habit_id, log_date) backs the replace-by-date upsert; without it concurrent
// progress writes could race into duplicate rows.
func Migrate(db *connection.Database) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	if err := db.AutoMigrate(
		&habits.Habit{},
		&habits.HabitLog{},
	); err != nil {
		return fmt.Errorf("failed to run automigration: %w", err)
	}

	return nil
}

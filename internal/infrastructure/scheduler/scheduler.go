package scheduler

import (
	"context"
	"time"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/domain/habits"
	"github.com/Alejandro-Araujo/habitjourney-backend/pkg/logger"
	"go.uber.org/zap"
)

// Scheduler runs the nightly rollover: once the day changes, every habit that
// was due yesterday and has no log gets a synthesized missed entry, so streak
// and rate queries see an explicit record instead of silence.
type Scheduler struct {
	habitService habits.Service
	logger       *logger.Logger
}

func NewScheduler(habitService habits.Service, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		habitService: habitService,
		logger:       logger,
	}
}

func (s *Scheduler) Start() {
	// Run immediately at startup to catch up on a missed rollover
	s.runRolloverTasks()

	// Calculate time until next midnight
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timeUntilMidnight := nextMidnight.Sub(now)

	s.logger.Info("Habit scheduler initialized",
		zap.Time("current_time", now),
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", timeUntilMidnight),
	)

	go func() {
		// Wait until first midnight
		time.Sleep(timeUntilMidnight)
		s.runRolloverTasks()

		// Then run every 24 hours
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			s.runRolloverTasks()
		}
	}()
}

func (s *Scheduler) runRolloverTasks() {
	ctx := context.Background()
	startTime := time.Now()

	yesterday := habits.AddDays(habits.DayOf(time.Now().UTC()), -1)

	s.logger.Info("Starting daily habit rollover",
		zap.Time("start_time", startTime),
		zap.Time("rollover_date", yesterday),
	)

	count, err := s.habitService.SynthesizeMissedLogs(ctx, yesterday)
	if err != nil {
		s.logger.Error("Failed to synthesize missed logs",
			zap.Error(err),
		)
	} else {
		s.logger.Info("Successfully synthesized missed logs",
			zap.Int64("synthesized_count", count),
			zap.Time("rollover_date", yesterday),
		)
	}

	s.logger.Info("Completed daily habit rollover",
		zap.Duration("duration", time.Since(startTime)),
	)
}

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/glazehaus/studio_scheduler/internal/service"
)

// Scheduler runs the periodic data-quality sweep: a full aggregation over
// the coming weeks whose only purpose is to surface repairs (duplicate slot
// rows, orphaned instructor references, unparseable times) to operators.
// The repairs themselves always happen inline during aggregation; the sweep
// makes them visible even on days nobody opens the grid.
type Scheduler struct {
	scheduleService *service.ScheduleService
	horizonDays     int
	logger          *zap.Logger
	stopChan        chan struct{}
}

func NewScheduler(scheduleService *service.ScheduleService, horizonDays int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduleService: scheduleService,
		horizonDays:     horizonDays,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")
	go s.runSweepTask(ctx)
}

func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

func (s *Scheduler) runSweepTask(ctx context.Context) {
	// First run right away, then once a day.
	s.sweep(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Data-quality sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Data-quality sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	s.logger.Info("Starting data-quality sweep", zap.Int("horizon_days", s.horizonDays))

	stats, err := s.scheduleService.SweepDataQuality(ctx, s.horizonDays)
	if err != nil {
		s.logger.Error("Data-quality sweep failed", zap.Error(err))
		return
	}

	if stats.DuplicateBookingRows+stats.OrphanedInstructors+stats.UnparseableTimes+stats.SkippedSlots > 0 {
		s.logger.Warn("Data-quality sweep found repairs; check upstream write path",
			zap.Int("duplicate_booking_rows", stats.DuplicateBookingRows),
			zap.Int("orphaned_instructors", stats.OrphanedInstructors),
			zap.Int("unparseable_times", stats.UnparseableTimes),
			zap.Int("skipped_slots", stats.SkippedSlots))
		return
	}

	s.logger.Info("Data-quality sweep completed clean")
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/repository"
	"github.com/glazehaus/studio_scheduler/internal/schedule"
)

// StaffNotifier forwards noteworthy events to the staff channel. A nil
// notifier disables notifications.
type StaffNotifier interface {
	Notify(ctx context.Context, message string)
}

// RescheduleService orchestrates the move of a booking's slot: it checks
// the destination against the aggregated grid, runs the lead-time policy
// engine, and persists approved moves through the booking repository.
type RescheduleService struct {
	scheduleService *ScheduleService
	bookingRepo     *repository.BookingRepository
	notifier        StaffNotifier
	engine          *schedule.PolicyEngine
	logger          *zap.Logger
}

func NewRescheduleService(
	scheduleService *ScheduleService,
	bookingRepo *repository.BookingRepository,
	notifier StaffNotifier,
	logger *zap.Logger,
) *RescheduleService {
	s := &RescheduleService{
		scheduleService: scheduleService,
		bookingRepo:     bookingRepo,
		notifier:        notifier,
		logger:          logger,
	}
	// The service itself is the engine's mutator: it resolves the
	// destination capacity the repository re-checks atomically.
	s.engine = schedule.NewPolicyEngine(s, logger)
	return s
}

// RequestReschedule validates the destination slot's free capacity against
// the current aggregation snapshot, then drives the policy state machine.
// Now is explicit so lead-time behavior is deterministic under test.
func (s *RescheduleService) RequestReschedule(ctx context.Context, req model.RescheduleRequest, now time.Time) (*model.RescheduleResult, error) {
	capacity, occupancy, err := s.scheduleService.SlotStatus(ctx, req.Destination, now)
	if err != nil {
		return nil, fmt.Errorf("check destination slot: %w", err)
	}
	if occupancy >= capacity {
		return nil, fmt.Errorf("destination slot %s %s is full (%d/%d)",
			req.Destination.Date, req.Destination.Time, occupancy, capacity)
	}

	result, err := s.engine.Request(ctx, req, now)
	if err != nil {
		return nil, err
	}

	if result.State == model.RescheduleStateApplied && result.WasException && s.notifier != nil {
		s.notifier.Notify(ctx, fmt.Sprintf(
			"Lead-time exception: booking %d moved from %s %s to %s %s, approved by %s",
			req.BookingID,
			req.Source.Date, req.Source.Time,
			req.Destination.Date, req.Destination.Time,
			req.ApprovedBy))
	}

	return result, nil
}

// PersistReschedule implements schedule.BookingMutator. The destination
// capacity resolved here is re-checked by the repository inside the write
// transaction, which closes the race between two reschedules targeting the
// same slot.
func (s *RescheduleService) PersistReschedule(ctx context.Context, bookingID int64, source, destination model.TimeSlot, wasException bool) error {
	capacity, _, err := s.scheduleService.SlotStatus(ctx, destination, time.Now())
	if err != nil {
		return fmt.Errorf("resolve destination capacity: %w", err)
	}

	return s.bookingRepo.PersistReschedule(ctx, bookingID, source, destination, capacity, wasException)
}

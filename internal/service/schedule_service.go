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

// ScheduleService materializes snapshots from the repositories and runs the
// reconciliation core over them. All compute is delegated to the schedule
// package, which never touches I/O; this service is the seam between the
// data store and the pure core.
type ScheduleService struct {
	bookingRepo      *repository.BookingRepository
	productRepo      *repository.ProductRepository
	instructorRepo   *repository.InstructorRepository
	availabilityRepo *repository.AvailabilityRepository
	logger           *zap.Logger
}

func NewScheduleService(
	bookingRepo *repository.BookingRepository,
	productRepo *repository.ProductRepository,
	instructorRepo *repository.InstructorRepository,
	availabilityRepo *repository.AvailabilityRepository,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		bookingRepo:      bookingRepo,
		productRepo:      productRepo,
		instructorRepo:   instructorRepo,
		availabilityRepo: availabilityRepo,
		logger:           logger,
	}
}

// snapshot fetches everything one aggregation pass needs. Fetch order does
// not matter to the core; aggregation is a function of the final snapshot.
func (s *ScheduleService) snapshot(ctx context.Context, dateRange model.DateRange, now time.Time) (schedule.AggregateInput, error) {
	bookings, err := s.bookingRepo.GetByDateRange(ctx, dateRange)
	if err != nil {
		return schedule.AggregateInput{}, fmt.Errorf("fetch bookings: %w", err)
	}

	products, err := s.productRepo.GetActive(ctx)
	if err != nil {
		return schedule.AggregateInput{}, fmt.Errorf("fetch products: %w", err)
	}

	template, err := s.availabilityRepo.GetTemplate(ctx)
	if err != nil {
		return schedule.AggregateInput{}, fmt.Errorf("fetch availability template: %w", err)
	}

	overrides, err := s.availabilityRepo.GetOverrides(ctx)
	if err != nil {
		return schedule.AggregateInput{}, fmt.Errorf("fetch overrides: %w", err)
	}

	capacityCfg, err := s.availabilityRepo.GetCapacityConfig(ctx)
	if err != nil {
		return schedule.AggregateInput{}, fmt.Errorf("fetch capacity config: %w", err)
	}

	roster, err := s.instructorRepo.GetRoster(ctx)
	if err != nil {
		return schedule.AggregateInput{}, fmt.Errorf("fetch instructor roster: %w", err)
	}

	return schedule.AggregateInput{
		Range:       dateRange,
		Bookings:    bookings,
		Products:    products,
		Template:    template,
		Overrides:   overrides,
		Capacity:    capacityCfg,
		Instructors: roster,
		Now:         now,
	}, nil
}

// AggregateSchedule produces the per-instructor occupancy grid for the date
// range.
func (s *ScheduleService) AggregateSchedule(ctx context.Context, dateRange model.DateRange, now time.Time) (schedule.Grid, error) {
	in, err := s.snapshot(ctx, dateRange, now)
	if err != nil {
		return nil, err
	}

	grid, stats := schedule.Aggregate(in, s.logger)
	s.logger.Debug("Schedule aggregated",
		zap.String("from", dateRange.From),
		zap.String("to", dateRange.To),
		zap.Int("instructors", len(grid)),
		zap.Int("duplicate_booking_rows", stats.DuplicateBookingRows),
		zap.Int("orphaned_instructors", stats.OrphanedInstructors))
	return grid, nil
}

// ResolveAvailability returns the effective bookable slots for one date.
func (s *ScheduleService) ResolveAvailability(ctx context.Context, date string) ([]model.TemplateSlot, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	template, err := s.availabilityRepo.GetTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch availability template: %w", err)
	}

	overrides, err := s.availabilityRepo.GetOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch overrides: %w", err)
	}

	return schedule.Resolve(date, template, overrides), nil
}

// GenerateRecurringSessions expands a self-scheduling product's rules over
// the horizon with booking counts attached.
func (s *ScheduleService) GenerateRecurringSessions(ctx context.Context, productID int64, horizonDays int, now time.Time) ([]*model.GeneratedSession, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %d not found", productID)
	}
	if !product.HasOwnSchedule() {
		return nil, fmt.Errorf("product %d does not define its own session schedule", productID)
	}

	if horizonDays <= 0 {
		horizonDays = schedule.DefaultUIHorizonDays
	}
	dateRange := model.DateRange{
		From: now.Format(model.DateLayout),
		To:   now.AddDate(0, 0, horizonDays).Format(model.DateLayout),
	}

	bookings, err := s.bookingRepo.GetByDateRange(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}

	overrides, err := s.availabilityRepo.GetOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch overrides: %w", err)
	}

	return schedule.GenerateSessions(product, bookings, overrides, schedule.GenerateOptions{
		HorizonDays: horizonDays,
		Now:         now,
	}), nil
}

// SlotStatus looks up one slot of the aggregated grid and reports its
// capacity and occupancy. Used to validate a reschedule destination before
// the policy engine runs.
func (s *ScheduleService) SlotStatus(ctx context.Context, slot model.TimeSlot, now time.Time) (capacity, occupancy int, err error) {
	grid, err := s.AggregateSchedule(ctx, model.DateRange{From: slot.Date, To: slot.Date}, now)
	if err != nil {
		return 0, 0, err
	}

	normalized, _ := schedule.Normalize(slot.Time)
	for _, byDate := range grid {
		for _, slots := range byDate {
			for _, es := range slots {
				if es.Date == slot.Date && es.Time == normalized {
					return es.Capacity, es.Occupancy(), nil
				}
			}
		}
	}

	// Unknown destination: fall back to the ad-hoc capacity default so a
	// manually arranged slot can still receive a booking.
	cfg, err := s.availabilityRepo.GetCapacityConfig(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch capacity config: %w", err)
	}
	return schedule.CapacityFor(model.TechniqueOther, nil, nil, cfg), 0, nil
}

// SweepDataQuality aggregates the coming horizon purely to collect repair
// counters for operators.
func (s *ScheduleService) SweepDataQuality(ctx context.Context, horizonDays int) (schedule.Stats, error) {
	if horizonDays <= 0 {
		horizonDays = schedule.DefaultAvailabilityHorizonDays
	}
	now := time.Now()
	dateRange := model.DateRange{
		From: now.Format(model.DateLayout),
		To:   now.AddDate(0, 0, horizonDays).Format(model.DateLayout),
	}

	in, err := s.snapshot(ctx, dateRange, now)
	if err != nil {
		return schedule.Stats{}, err
	}

	_, stats := schedule.Aggregate(in, s.logger)
	return stats, nil
}

// RemoveBookingSlot removes one reserved slot from a booking.
func (s *ScheduleService) RemoveBookingSlot(ctx context.Context, bookingID int64, slot model.TimeSlot) error {
	if err := s.bookingRepo.RemoveSlot(ctx, bookingID, slot); err != nil {
		return err
	}

	s.logger.Info("Booking slot removed",
		zap.Int64("booking_id", bookingID),
		zap.String("date", slot.Date),
		zap.String("time", slot.Time))
	return nil
}

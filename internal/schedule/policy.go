package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

// RescheduleLeadTime is the minimum interval between "now" and the source
// slot's start below which moving a booking requires administrative
// approval.
const RescheduleLeadTime = 72 * time.Hour

// BookingMutator persists an approved reschedule. The implementation must
// re-check destination capacity atomically at persistence time: two
// concurrent reschedules can both pass a capacity check against a stale
// aggregation snapshot, and the second writer has to fail with a conflict
// rather than overbook.
type BookingMutator interface {
	PersistReschedule(ctx context.Context, bookingID int64, source, destination model.TimeSlot, wasException bool) error
}

// PolicyEngine guards the single operation "move booking B's slot S1 to
// slot S2" with a lead-time gate. Destination capacity is the caller's
// concern, checked against aggregation output before invoking the engine;
// the engine governs the time window only.
type PolicyEngine struct {
	mutator  BookingMutator
	leadTime time.Duration
	logger   *zap.Logger
}

func NewPolicyEngine(mutator BookingMutator, logger *zap.Logger) *PolicyEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyEngine{
		mutator:  mutator,
		leadTime: RescheduleLeadTime,
		logger:   logger,
	}
}

// Request runs one pass of the state machine:
//
//	requested -> approved            (lead time satisfied, or admin exception)
//	requested -> lead_time_violation (inside the window, no approval - halt)
//	approved  -> applied             (mutation persisted)
//
// Now is an explicit parameter so lead-time decisions are deterministic
// under test. A collaborator failure during persistence is surfaced
// verbatim and never retried here: a retried success could double-apply.
func (e *PolicyEngine) Request(ctx context.Context, req model.RescheduleRequest, now time.Time) (*model.RescheduleResult, error) {
	start, err := SlotStart(req.Source, now.Location())
	if err != nil {
		return nil, fmt.Errorf("resolve source slot start: %w", err)
	}

	hoursUntil := start.Sub(now).Hours()
	result := &model.RescheduleResult{
		State:           model.RescheduleStateRequested,
		HoursUntilClass: hoursUntil,
	}

	if start.Sub(now) < e.leadTime {
		if !req.AdminApproval {
			// Halt with a structured outcome; no mutation in this branch.
			result.State = model.RescheduleStateLeadTimeViolation
			e.logger.Info("Reschedule inside lead-time window, approval required",
				zap.Int64("booking_id", req.BookingID),
				zap.Float64("hours_until_class", hoursUntil))
			return result, nil
		}
		approvedAt := now
		result.WasException = true
		result.ApprovedBy = req.ApprovedBy
		result.ApprovedAt = &approvedAt
		e.logger.Info("Reschedule approved as lead-time exception",
			zap.Int64("booking_id", req.BookingID),
			zap.Float64("hours_until_class", hoursUntil),
			zap.String("approved_by", req.ApprovedBy))
	}

	result.State = model.RescheduleStateApproved

	err = e.mutator.PersistReschedule(ctx, req.BookingID, req.Source, req.Destination, result.WasException)
	if err != nil {
		result.Error = err.Error()
		e.logger.Error("Reschedule persistence failed",
			zap.Int64("booking_id", req.BookingID),
			zap.Error(err))
		return result, nil
	}

	result.State = model.RescheduleStateApplied
	e.logger.Info("Reschedule applied",
		zap.Int64("booking_id", req.BookingID),
		zap.String("from", req.Source.Date+" "+req.Source.Time),
		zap.String("to", req.Destination.Date+" "+req.Destination.Time),
		zap.Bool("was_exception", result.WasException))
	return result, nil
}

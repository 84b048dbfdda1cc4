package model

import "time"

type RescheduleState string

const (
	RescheduleStateRequested         RescheduleState = "requested"
	RescheduleStateLeadTimeViolation RescheduleState = "lead_time_violation"
	RescheduleStateApproved          RescheduleState = "approved"
	RescheduleStateApplied           RescheduleState = "applied"
)

// RescheduleRequest is the transient input of one reschedule operation. It
// is never persisted; success mutates the booking's slot list instead.
type RescheduleRequest struct {
	BookingID     int64    `json:"booking_id"`
	Source        TimeSlot `json:"source"`
	Destination   TimeSlot `json:"destination"`
	AdminApproval bool     `json:"admin_approval"`
	ApprovedBy    string   `json:"approved_by,omitempty"`
}

// RescheduleResult describes the outcome of one pass through the policy
// state machine. A lead-time violation is an expected outcome, not an
// error: HoursUntilClass tells staff how far inside the window the class is.
type RescheduleResult struct {
	State           RescheduleState `json:"state"`
	HoursUntilClass float64         `json:"hours_until_class"`
	WasException    bool            `json:"was_exception"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	Error           string          `json:"error,omitempty"`
}

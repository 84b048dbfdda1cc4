package model

import "time"

// TemplateSlot is one bookable entry of the weekly availability template or
// of a per-date override slot list.
type TemplateSlot struct {
	Time         string `json:"time"` // normalized HH:MM
	InstructorID int64  `json:"instructor_id"`
}

// AvailabilityTemplate maps a weekday to its ordered list of bookable slots.
// Staff-edited, read on every resolution call.
type AvailabilityTemplate map[time.Weekday][]TemplateSlot

// ScheduleOverride is a per-date exception. When SlotsReplaced is set the
// slot list for that date is the Slots field verbatim (the weekly template
// is ignored entirely); DayCancelled suppresses the whole day. A
// capacity-only override leaves the slot list alone.
type ScheduleOverride struct {
	Date          string         `json:"date"` // YYYY-MM-DD
	DayCancelled  bool           `json:"day_cancelled"`
	SlotsReplaced bool           `json:"slots_replaced"`
	Slots         []TemplateSlot `json:"slots,omitempty"`
	Capacity      *int           `json:"capacity,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// CapacityConfig holds the technique-keyed default capacities and the global
// fallback used for ad-hoc slots with no clear technique.
type CapacityConfig struct {
	PerTechnique   map[Technique]int `json:"per_technique"`
	GlobalFallback int               `json:"global_fallback"`
}

package schedule

import (
	"github.com/glazehaus/studio_scheduler/internal/model"
)

// Resolve returns the effective list of bookable template slots for one
// calendar date. A date-specific override is authoritative and total for
// that date: a cancelled day resolves to no slots, a replacement slot list
// is returned verbatim, and only in the absence of both does the weekly
// template apply. Overrides never merge with the template; staff editing a
// single day always control the complete slot list for that day.
//
// Pure function of its inputs: same snapshot, same output.
func Resolve(date string, template model.AvailabilityTemplate, overrides map[string]*model.ScheduleOverride) []model.TemplateSlot {
	if ov, ok := overrides[date]; ok && ov != nil {
		if ov.DayCancelled {
			return []model.TemplateSlot{}
		}
		if ov.SlotsReplaced {
			return ov.Slots
		}
		// Capacity-only override: the slot list still comes from the template.
	}

	day, err := ParseDate(date)
	if err != nil {
		return nil
	}
	return template[day.Weekday()]
}

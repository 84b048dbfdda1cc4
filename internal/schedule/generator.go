package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

const (
	// DefaultUIHorizonDays is how far ahead the admin UI lists generated
	// sessions.
	DefaultUIHorizonDays = 90
	// DefaultAvailabilityHorizonDays is the shorter horizon used when
	// computing bookable availability.
	DefaultAvailabilityHorizonDays = 28
)

// GenerateOptions bound one expansion pass. Now is explicit so tests are
// deterministic; the core never reads a wall clock.
type GenerateOptions struct {
	HorizonDays int
	Now         time.Time
}

// GenerateSessions expands a product's self-describing session rules into
// concrete dated sessions within the horizon, applying per-date overrides
// on top: a cancelled day suppresses every generated session, a replacement
// slot list substitutes the session times for that date, and a
// capacity-only override is applied per session. Each session carries
// paid/total booking counts for its exact date and time, scanned from the
// booking snapshot passed in as an argument. The generator never queries
// anything itself.
func GenerateSessions(product *model.Product, bookings []*model.Booking, overrides map[string]*model.ScheduleOverride, opts GenerateOptions) []*model.GeneratedSession {
	if product == nil || !product.HasOwnSchedule() {
		return nil
	}

	horizon := opts.HorizonDays
	if horizon <= 0 {
		horizon = DefaultUIHorizonDays
	}

	counts := bookingCountsByStart(product, bookings)

	sessionsByDate := make(map[string][]*model.GeneratedSession)
	for i := 0; i < horizon; i++ {
		day := opts.Now.AddDate(0, 0, i)
		date := day.Format(model.DateLayout)

		ov := overrides[date]
		if ov != nil && ov.DayCancelled {
			continue
		}

		if ov != nil && ov.SlotsReplaced {
			// The override's slot list replaces the generated sessions for
			// this date entirely.
			for _, slot := range ov.Slots {
				normalized, _ := Normalize(slot.Time)
				sessionsByDate[date] = append(sessionsByDate[date], &model.GeneratedSession{
					Date:            date,
					Time:            normalized,
					DurationMinutes: ruleDuration(product),
					Capacity:        CapacityFor(product.Detail.Technique, product, ov.Capacity, model.CapacityConfig{}),
					FromOverride:    true,
				})
			}
			continue
		}

		var capOverride *int
		if ov != nil {
			capOverride = ov.Capacity
		}

		for _, rule := range product.Detail.SessionRules {
			if int(day.Weekday()) != rule.Weekday {
				continue
			}
			capacity := rule.Capacity
			if capOverride != nil {
				capacity = floorZero(*capOverride)
			}
			sessionsByDate[date] = append(sessionsByDate[date], &model.GeneratedSession{
				Date:            date,
				Time:            fmt.Sprintf("%02d:%02d", rule.StartHour, rule.StartMinute),
				DurationMinutes: rule.DurationMinutes,
				Capacity:        capacity,
			})
		}
	}

	var sessions []*model.GeneratedSession
	for _, daySessions := range sessionsByDate {
		sessions = append(sessions, daySessions...)
	}
	for _, s := range sessions {
		c := counts[s.Date+"|"+s.Time]
		s.PaidBookings = c.paid
		s.TotalBookings = c.total
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].Time < sessions[j].Time
	})
	return sessions
}

type sessionCounts struct {
	paid  int
	total int
}

func bookingCountsByStart(product *model.Product, bookings []*model.Booking) map[string]sessionCounts {
	counts := make(map[string]sessionCounts)
	for _, b := range bookings {
		if b.ProductID != product.ID {
			continue
		}
		seen := make(map[string]bool)
		for _, slot := range b.Slots {
			normalized, _ := Normalize(slot.Time)
			key := slot.Date + "|" + normalized
			if seen[key] {
				continue // duplicate raw slot rows for one reservation
			}
			seen[key] = true
			c := counts[key]
			c.total++
			if b.Paid {
				c.paid++
			}
			counts[key] = c
		}
	}
	return counts
}

func ruleDuration(product *model.Product) int {
	for _, rule := range product.Detail.SessionRules {
		if rule.DurationMinutes > 0 {
			return rule.DurationMinutes
		}
	}
	return 0
}

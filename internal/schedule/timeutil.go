package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

// SentinelTime is returned for unparseable time-of-day input. Normalization
// runs inside aggregation loops over dirty historical rows, so it must
// never fail hard.
const SentinelTime = "00:00"

// Normalize canonicalizes a time-of-day string into zero-padded 24-hour
// "HH:MM". It accepts 24-hour input ("9:30", "14:00") and locale 12-hour
// input ("9:30 AM", "12:00 pm"), including non-breaking spaces before the
// meridiem marker. The second return value is false when the input could
// not be parsed and the sentinel was substituted.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", " ") // NBSP shows up in locale-formatted exports
	s = strings.ReplaceAll(s, " ", " ")
	if s == "" {
		return SentinelTime, false
	}

	upper := strings.ToUpper(s)
	meridiem := ""
	for _, m := range []string{"AM", "PM", "A.M.", "P.M."} {
		if strings.HasSuffix(upper, m) {
			meridiem = string(m[0])
			upper = strings.TrimSpace(strings.TrimSuffix(upper, m))
			break
		}
	}

	parts := strings.Split(upper, ":")
	if len(parts) < 2 {
		return SentinelTime, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return SentinelTime, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return SentinelTime, false
	}

	switch meridiem {
	case "A":
		if hour == 12 {
			hour = 0
		}
	case "P":
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return SentinelTime, false
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// ParseDate parses an ISO calendar date.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(model.DateLayout, date)
}

// DatesInRange expands an inclusive date range into its ISO date keys in
// ascending order. An inverted or unparseable range yields nil.
func DatesInRange(r model.DateRange) []string {
	from, err := ParseDate(r.From)
	if err != nil {
		return nil
	}
	to, err := ParseDate(r.To)
	if err != nil {
		return nil
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(model.DateLayout))
	}
	return dates
}

// SlotStart combines a slot's date and normalized time into a concrete
// moment in the given location.
func SlotStart(slot model.TimeSlot, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(slot.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot date %q: %w", slot.Date, err)
	}
	normalized, _ := Normalize(slot.Time)
	clock, err := time.Parse("15:04", normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot time %q: %w", slot.Time, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

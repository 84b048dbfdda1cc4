package schedule

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

// SyntheticInstructorID keys the grid bucket used when the roster is empty.
// Degrading to one synthetic bucket keeps real bookings visible instead of
// failing the whole aggregation.
const SyntheticInstructorID int64 = 0

// AggregateInput is a fully materialized snapshot. Aggregation is a pure
// function of this snapshot, not of the order the collaborators delivered
// its pieces; re-aggregation is always a full recompute.
type AggregateInput struct {
	Range       model.DateRange
	Bookings    []*model.Booking
	Products    []*model.Product
	Template    model.AvailabilityTemplate
	Overrides   map[string]*model.ScheduleOverride
	Capacity    model.CapacityConfig
	Instructors []*model.Instructor
	Now         time.Time
}

// Grid is the aggregation output: instructor id -> date -> slots sorted by
// time ascending.
type Grid map[int64]map[string][]*model.EnrichedSlot

// Stats counts the data-quality repairs performed during one pass. Nonzero
// counters usually indicate an upstream write-path defect worth chasing.
type Stats struct {
	DuplicateBookingRows int
	OrphanedInstructors  int
	UnparseableTimes     int
	SkippedSlots         int
}

// Aggregate reconciles bookings, the availability template with its
// overrides, and generated recurring sessions into one de-duplicated
// occupancy grid:
//
//  1. booking pass - group every in-range reserved slot under the composite
//     key date|time|technique, materializing slots and merging bookings
//     idempotently by booking id
//  2. availability pass - materialize empty slots for resolved template
//     availability and generated sessions that have no bookings yet
//  3. instructor repair - reassign slots owned by instructors missing from
//     the roster instead of dropping them
//  4. bucketing - group by instructor, then date, sorted by time
func Aggregate(in AggregateInput, logger *zap.Logger) (Grid, Stats) {
	if logger == nil {
		logger = zap.NewNop()
	}

	stats := Stats{}
	productsByID := make(map[int64]*model.Product, len(in.Products))
	for _, p := range in.Products {
		productsByID[p.ID] = p
	}

	keyed := make(map[string]*model.EnrichedSlot)

	// Pass 1: bookings.
	for _, b := range in.Bookings {
		product := b.Product
		if product == nil {
			product = productsByID[b.ProductID]
		}
		technique := ResolveTechnique(b, product)

		for _, raw := range b.Slots {
			if !in.Range.Contains(raw.Date) {
				continue
			}
			if _, err := ParseDate(raw.Date); err != nil {
				stats.SkippedSlots++
				logger.Warn("Skipping booking slot with malformed date",
					zap.Int64("booking_id", b.ID),
					zap.String("date", raw.Date))
				continue
			}

			normalized, ok := Normalize(raw.Time)
			if !ok {
				stats.UnparseableTimes++
				logger.Warn("Unparseable slot time, using sentinel",
					zap.Int64("booking_id", b.ID),
					zap.String("date", raw.Date),
					zap.String("time", raw.Time))
			}

			key := raw.Date + "|" + normalized + "|" + string(technique)
			slot, exists := keyed[key]
			if !exists {
				ov := in.Overrides[raw.Date]
				var capOverride *int
				if ov != nil {
					capOverride = ov.Capacity
				}
				slot = &model.EnrichedSlot{
					Date:          raw.Date,
					Time:          normalized,
					Technique:     technique,
					Product:       product,
					InstructorID:  raw.InstructorID,
					Capacity:      CapacityFor(technique, product, capOverride, in.Capacity),
					IsOverrideDay: ov != nil,
				}
				keyed[key] = slot
			}

			// Idempotent merge: source data may contain duplicate raw slot
			// rows for the same logical reservation.
			if containsBooking(slot.Bookings, b.ID) {
				stats.DuplicateBookingRows++
				logger.Warn("Duplicate slot row for booking, suppressed",
					zap.Int64("booking_id", b.ID),
					zap.String("date", raw.Date),
					zap.String("time", normalized))
				continue
			}
			slot.Bookings = append(slot.Bookings, b)
		}
	}

	// Pass 2: candidate empty slots from the template/overrides and from
	// products with their own session cadence, so the grid shows open
	// capacity rather than just occupied slots.
	for _, date := range DatesInRange(in.Range) {
		ov := in.Overrides[date]
		var capOverride *int
		if ov != nil {
			capOverride = ov.Capacity
		}

		for _, tpl := range Resolve(date, in.Template, in.Overrides) {
			normalized, ok := Normalize(tpl.Time)
			if !ok {
				stats.UnparseableTimes++
				logger.Warn("Unparseable template slot time",
					zap.String("date", date),
					zap.String("time", tpl.Time))
			}
			key := date + "|" + normalized + "|" + string(model.TechniqueOther)
			if _, exists := keyed[key]; exists {
				continue
			}
			keyed[key] = &model.EnrichedSlot{
				Date:          date,
				Time:          normalized,
				Technique:     model.TechniqueOther,
				InstructorID:  tpl.InstructorID,
				Capacity:      CapacityFor(model.TechniqueOther, nil, capOverride, in.Capacity),
				IsOverrideDay: ov != nil,
			}
		}
	}

	horizon := generationHorizon(in.Range, in.Now)
	for _, p := range in.Products {
		if !p.HasOwnSchedule() {
			continue
		}
		sessions := GenerateSessions(p, in.Bookings, in.Overrides, GenerateOptions{HorizonDays: horizon, Now: in.Now})
		for _, s := range sessions {
			if !in.Range.Contains(s.Date) {
				continue
			}
			technique := p.Detail.Technique
			if !technique.IsKnown() {
				technique = techniqueFromName(p.Name)
			}
			key := s.Date + "|" + s.Time + "|" + string(technique)
			if _, exists := keyed[key]; exists {
				continue
			}
			keyed[key] = &model.EnrichedSlot{
				Date:          s.Date,
				Time:          s.Time,
				Technique:     technique,
				Product:       p,
				Capacity:      s.Capacity,
				IsOverrideDay: in.Overrides[s.Date] != nil,
			}
		}
	}

	// Pass 3: instructor repair. A booking whose instructor left the roster
	// must stay visible, so ownership moves to the first roster instructor.
	roster := make(map[int64]bool, len(in.Instructors))
	var fallbackID int64 = SyntheticInstructorID
	for i, ins := range in.Instructors {
		roster[ins.ID] = true
		if i == 0 {
			fallbackID = ins.ID
		}
	}

	for _, slot := range keyed {
		if roster[slot.InstructorID] {
			continue
		}
		if slot.InstructorID != 0 {
			stats.OrphanedInstructors++
			logger.Warn("Slot references instructor missing from roster, reassigning",
				zap.Int64("instructor_id", slot.InstructorID),
				zap.Int64("reassigned_to", fallbackID),
				zap.String("date", slot.Date),
				zap.String("time", slot.Time))
		}
		slot.InstructorID = fallbackID
	}

	// Pass 4: bucketing.
	grid := make(Grid)
	for _, slot := range keyed {
		byDate, ok := grid[slot.InstructorID]
		if !ok {
			byDate = make(map[string][]*model.EnrichedSlot)
			grid[slot.InstructorID] = byDate
		}
		byDate[slot.Date] = append(byDate[slot.Date], slot)
	}
	for _, byDate := range grid {
		for _, slots := range byDate {
			sort.Slice(slots, func(i, j int) bool { return slots[i].Time < slots[j].Time })
		}
	}

	return grid, stats
}

func containsBooking(bookings []*model.Booking, id int64) bool {
	for _, b := range bookings {
		if b.ID == id {
			return true
		}
	}
	return false
}

// generationHorizon covers the aggregation range from Now so generated
// sessions reach the end of the requested window.
func generationHorizon(r model.DateRange, now time.Time) int {
	to, err := ParseDate(r.To)
	if err != nil {
		return DefaultAvailabilityHorizonDays
	}
	days := int(to.Sub(now).Hours()/24) + 2
	if days < 1 {
		return 1
	}
	return days
}

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

var aggregateNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func testRoster() []*model.Instructor {
	return []*model.Instructor{
		{ID: 1, Name: "Mira", IsActive: true},
		{ID: 2, Name: "Jonas", IsActive: true},
	}
}

func weekRange() model.DateRange {
	return model.DateRange{From: "2025-03-01", To: "2025-03-07"}
}

func findSlot(grid Grid, date, timeOfDay string) *model.EnrichedSlot {
	for _, byDate := range grid {
		for _, slots := range byDate {
			for _, s := range slots {
				if s.Date == date && s.Time == timeOfDay {
					return s
				}
			}
		}
	}
	return nil
}

func TestAggregateDeduplicatesRawSlotRows(t *testing.T) {
	booking := &model.Booking{
		ID: 1,
		Slots: []model.TimeSlot{
			{Date: "2025-03-03", Time: "10:00", InstructorID: 1},
			{Date: "2025-03-03", Time: "10:00 AM", InstructorID: 1}, // same logical reservation
		},
	}

	grid, stats := Aggregate(AggregateInput{
		Range:       weekRange(),
		Bookings:    []*model.Booking{booking},
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	slot := findSlot(grid, "2025-03-03", "10:00")
	require.NotNil(t, slot)
	assert.Len(t, slot.Bookings, 1)
	assert.Equal(t, 1, stats.DuplicateBookingRows)
	assert.Equal(t, 1, slot.Occupancy())
}

func TestAggregateRepairsOrphanedInstructor(t *testing.T) {
	booking := &model.Booking{
		ID:    5,
		Slots: []model.TimeSlot{{Date: "2025-03-03", Time: "10:00", InstructorID: 99}},
	}

	grid, stats := Aggregate(AggregateInput{
		Range:       weekRange(),
		Bookings:    []*model.Booking{booking},
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	// The slot moves to the first roster instructor and keeps its booking.
	require.Contains(t, grid, int64(1))
	slots := grid[1]["2025-03-03"]
	require.Len(t, slots, 1)
	assert.Len(t, slots[0].Bookings, 1)
	assert.Equal(t, int64(5), slots[0].Bookings[0].ID)
	assert.Equal(t, 1, stats.OrphanedInstructors)
}

func TestAggregateMaterializesEmptyTemplateSlots(t *testing.T) {
	grid, _ := Aggregate(AggregateInput{
		Range:       weekRange(),
		Template:    mondayTemplate(),
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	// The grid shows open capacity, not just occupied slots.
	slot := findSlot(grid, "2025-03-03", "10:00")
	require.NotNil(t, slot)
	assert.Empty(t, slot.Bookings)
	assert.Equal(t, 1, slot.Capacity) // ad-hoc template slot, global fallback
	assert.Equal(t, 1, slot.Remaining())
}

func TestAggregateCancelledOverrideDayHasNoTemplateSlots(t *testing.T) {
	overrides := map[string]*model.ScheduleOverride{
		"2025-03-03": {Date: "2025-03-03", DayCancelled: true},
	}

	grid, _ := Aggregate(AggregateInput{
		Range:       weekRange(),
		Template:    mondayTemplate(),
		Overrides:   overrides,
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	assert.Nil(t, findSlot(grid, "2025-03-03", "10:00"))
	assert.Nil(t, findSlot(grid, "2025-03-03", "14:00"))
}

func TestAggregateMergesGeneratedSessions(t *testing.T) {
	grid, _ := Aggregate(AggregateInput{
		Range:       weekRange(),
		Products:    []*model.Product{mondayIntroProduct()},
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	slot := findSlot(grid, "2025-03-03", "18:00")
	require.NotNil(t, slot)
	assert.Equal(t, model.TechniqueWheel, slot.Technique)
	assert.Equal(t, 8, slot.Capacity)
	assert.Empty(t, slot.Bookings)
	// Ownerless generated sessions land with the first roster instructor.
	assert.Equal(t, int64(1), slot.InstructorID)
}

func TestAggregateDateOverrideCapacitySeedsBookingSlots(t *testing.T) {
	three := 3
	overrides := map[string]*model.ScheduleOverride{
		"2025-03-04": {Date: "2025-03-04", Capacity: &three},
	}
	booking := &model.Booking{
		ID:        8,
		Technique: model.TechniqueWheel,
		Slots:     []model.TimeSlot{{Date: "2025-03-04", Time: "10:00", InstructorID: 1}},
	}

	grid, _ := Aggregate(AggregateInput{
		Range:       weekRange(),
		Bookings:    []*model.Booking{booking},
		Overrides:   overrides,
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	slot := findSlot(grid, "2025-03-04", "10:00")
	require.NotNil(t, slot)
	assert.Equal(t, 3, slot.Capacity) // override beats the wheel default of 6
	assert.True(t, slot.IsOverrideDay)
}

func TestAggregateSkipsMalformedDatesOnly(t *testing.T) {
	booking := &model.Booking{
		ID: 9,
		Slots: []model.TimeSlot{
			{Date: "2025-03-33", Time: "10:00", InstructorID: 1},
			{Date: "2025-03-04", Time: "whenever", InstructorID: 1},
		},
	}
	// The malformed date is outside the range key comparison anyway; use a
	// range string that still contains it lexicographically.
	grid, stats := Aggregate(AggregateInput{
		Range:       model.DateRange{From: "2025-03-01", To: "2025-03-40"},
		Bookings:    []*model.Booking{booking},
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	assert.Equal(t, 1, stats.SkippedSlots)
	assert.Equal(t, 1, stats.UnparseableTimes)

	// The unparseable time lands on the sentinel instead of vanishing.
	slot := findSlot(grid, "2025-03-04", SentinelTime)
	require.NotNil(t, slot)
	assert.Len(t, slot.Bookings, 1)
}

func TestAggregateEmptyRosterDegradesToSyntheticBucket(t *testing.T) {
	booking := &model.Booking{
		ID:    3,
		Slots: []model.TimeSlot{{Date: "2025-03-03", Time: "10:00", InstructorID: 7}},
	}

	grid, _ := Aggregate(AggregateInput{
		Range:    weekRange(),
		Bookings: []*model.Booking{booking},
		Capacity: testCapacityConfig(),
		Now:      aggregateNow,
	}, nil)

	require.Contains(t, grid, SyntheticInstructorID)
	assert.Len(t, grid[SyntheticInstructorID]["2025-03-03"], 1)
}

func TestAggregateSortsSlotsWithinDate(t *testing.T) {
	booking := &model.Booking{
		ID: 4,
		Slots: []model.TimeSlot{
			{Date: "2025-03-03", Time: "4:00 PM", InstructorID: 1},
			{Date: "2025-03-03", Time: "09:00", InstructorID: 1},
			{Date: "2025-03-03", Time: "12:30", InstructorID: 1},
		},
	}

	grid, _ := Aggregate(AggregateInput{
		Range:       weekRange(),
		Bookings:    []*model.Booking{booking},
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	slots := grid[1]["2025-03-03"]
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "12:30", slots[1].Time)
	assert.Equal(t, "16:00", slots[2].Time)
}

func TestAggregateOccupancyFallbackChain(t *testing.T) {
	five := 5
	groupProduct := &model.Product{
		ID:     3,
		Name:   "Team event",
		Type:   model.ProductTypeGroupClass,
		Detail: model.ProductDetail{Technique: model.TechniquePainting, MinParticipants: 6},
	}

	bookings := []*model.Booking{
		{ID: 1, Participants: &five, Slots: []model.TimeSlot{{Date: "2025-03-03", Time: "10:00", InstructorID: 1}}},
		{ID: 2, ProductID: 3, Product: groupProduct, Slots: []model.TimeSlot{{Date: "2025-03-04", Time: "10:00", InstructorID: 1}}},
		{ID: 3, Slots: []model.TimeSlot{{Date: "2025-03-05", Time: "10:00", InstructorID: 1}}},
	}

	grid, _ := Aggregate(AggregateInput{
		Range:       weekRange(),
		Bookings:    bookings,
		Products:    []*model.Product{groupProduct},
		Capacity:    testCapacityConfig(),
		Instructors: testRoster(),
		Now:         aggregateNow,
	}, nil)

	assert.Equal(t, 5, findSlot(grid, "2025-03-03", "10:00").Occupancy()) // explicit count
	assert.Equal(t, 6, findSlot(grid, "2025-03-04", "10:00").Occupancy()) // group minimum
	assert.Equal(t, 1, findSlot(grid, "2025-03-05", "10:00").Occupancy()) // one person default
}

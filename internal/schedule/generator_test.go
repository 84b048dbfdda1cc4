package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

// Saturday, so the first Monday in the horizon is 2025-03-03.
var generatorNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func mondayIntroProduct() *model.Product {
	return &model.Product{
		ID:   7,
		Name: "Introduction to the wheel",
		Type: model.ProductTypeIntroductory,
		Detail: model.ProductDetail{
			Technique: model.TechniqueWheel,
			SessionRules: []model.SessionRule{
				{Weekday: int(time.Monday), StartHour: 18, StartMinute: 0, DurationMinutes: 120, Capacity: 8},
			},
		},
	}
}

func TestGenerateSessionsExpandsCadenceWithinHorizon(t *testing.T) {
	sessions := GenerateSessions(mondayIntroProduct(), nil, nil, GenerateOptions{HorizonDays: 10, Now: generatorNow})

	require.Len(t, sessions, 2)
	assert.Equal(t, "2025-03-03", sessions[0].Date)
	assert.Equal(t, "18:00", sessions[0].Time)
	assert.Equal(t, 120, sessions[0].DurationMinutes)
	assert.Equal(t, 8, sessions[0].Capacity)
	assert.Equal(t, "2025-03-10", sessions[1].Date)
}

func TestGenerateSessionsCancelledDaySuppressesAllSessions(t *testing.T) {
	overrides := map[string]*model.ScheduleOverride{
		"2025-03-03": {Date: "2025-03-03", DayCancelled: true},
	}

	sessions := GenerateSessions(mondayIntroProduct(), nil, overrides, GenerateOptions{HorizonDays: 10, Now: generatorNow})

	require.Len(t, sessions, 1)
	assert.Equal(t, "2025-03-10", sessions[0].Date)
}

func TestGenerateSessionsReplacementListReplacesGeneratedDay(t *testing.T) {
	overrides := map[string]*model.ScheduleOverride{
		"2025-03-03": {
			Date:          "2025-03-03",
			SlotsReplaced: true,
			Slots:         []model.TemplateSlot{{Time: "11:00 AM", InstructorID: 1}},
		},
	}

	sessions := GenerateSessions(mondayIntroProduct(), nil, overrides, GenerateOptions{HorizonDays: 10, Now: generatorNow})

	require.Len(t, sessions, 2)
	assert.Equal(t, "2025-03-03", sessions[0].Date)
	assert.Equal(t, "11:00", sessions[0].Time)
	assert.True(t, sessions[0].FromOverride)
	assert.Equal(t, 8, sessions[0].Capacity) // rule capacity still applies
	assert.Equal(t, "2025-03-10", sessions[1].Date)
	assert.False(t, sessions[1].FromOverride)
}

func TestGenerateSessionsCapacityOnlyOverride(t *testing.T) {
	four := 4
	overrides := map[string]*model.ScheduleOverride{
		"2025-03-03": {Date: "2025-03-03", Capacity: &four},
	}

	sessions := GenerateSessions(mondayIntroProduct(), nil, overrides, GenerateOptions{HorizonDays: 10, Now: generatorNow})

	require.Len(t, sessions, 2)
	assert.Equal(t, 4, sessions[0].Capacity)
	assert.Equal(t, 8, sessions[1].Capacity)
}

func TestGenerateSessionsAttachesBookingCounts(t *testing.T) {
	bookings := []*model.Booking{
		{
			ID:        1,
			ProductID: 7,
			Paid:      true,
			Slots: []model.TimeSlot{
				// Duplicate raw rows for one reservation count once.
				{Date: "2025-03-03", Time: "6:00 PM", InstructorID: 1},
				{Date: "2025-03-03", Time: "18:00", InstructorID: 1},
			},
		},
		{
			ID:        2,
			ProductID: 7,
			Paid:      false,
			Slots:     []model.TimeSlot{{Date: "2025-03-03", Time: "18:00", InstructorID: 1}},
		},
		{
			ID:        3,
			ProductID: 99, // different product, ignored
			Paid:      true,
			Slots:     []model.TimeSlot{{Date: "2025-03-03", Time: "18:00", InstructorID: 1}},
		},
	}

	sessions := GenerateSessions(mondayIntroProduct(), bookings, nil, GenerateOptions{HorizonDays: 10, Now: generatorNow})

	require.Len(t, sessions, 2)
	assert.Equal(t, 2, sessions[0].TotalBookings)
	assert.Equal(t, 1, sessions[0].PaidBookings)
	assert.Equal(t, 0, sessions[1].TotalBookings)
}

func TestGenerateSessionsNilForTemplateScheduledProducts(t *testing.T) {
	p := &model.Product{ID: 2, Name: "Wheel course", Type: model.ProductTypeClassPackage}
	assert.Nil(t, GenerateSessions(p, nil, nil, GenerateOptions{HorizonDays: 30, Now: generatorNow}))
	assert.Nil(t, GenerateSessions(nil, nil, nil, GenerateOptions{HorizonDays: 30, Now: generatorNow}))
}

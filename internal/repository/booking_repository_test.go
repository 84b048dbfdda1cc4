package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

func groupClassBooking(id int64, minParticipants int) *model.Booking {
	return &model.Booking{
		ID: id,
		Product: &model.Product{
			ID:     3,
			Type:   model.ProductTypeGroupClass,
			Detail: model.ProductDetail{MinParticipants: minParticipants},
		},
	}
}

func TestDestinationLoadWeighsParticipants(t *testing.T) {
	five := 5
	rows := []slotRow{
		{id: 1, date: "2025-03-10", rawTime: "18:00", booking: &model.Booking{ID: 1, Participants: &five}},
		{id: 2, date: "2025-03-10", rawTime: "18:00", booking: groupClassBooking(2, 6)},
		{id: 3, date: "2025-03-10", rawTime: "18:00", booking: &model.Booking{ID: 3}},
		{id: 4, date: "2025-03-10", rawTime: "10:00", booking: &model.Booking{ID: 4}},
		{id: 5, date: "2025-03-11", rawTime: "18:00", booking: &model.Booking{ID: 5}},
	}

	// 5 explicit + 6 group minimum + 1 default; the last two rows belong to
	// other slots. A row count would say 3 and let a 6-seat group slip past
	// a capacity check.
	assert.Equal(t, 12, destinationLoad(rows, "2025-03-10", "18:00", 99))
}

func TestDestinationLoadCountsLegacyTimeForms(t *testing.T) {
	rows := []slotRow{
		{id: 1, date: "2025-03-10", rawTime: "6:00 PM", booking: &model.Booking{ID: 1}},
		{id: 2, date: "2025-03-10", rawTime: "18:00", booking: &model.Booking{ID: 2}},
	}

	assert.Equal(t, 2, destinationLoad(rows, "2025-03-10", "18:00", 99))
}

func TestDestinationLoadDeduplicatesAndExcludesMover(t *testing.T) {
	rows := []slotRow{
		{id: 1, date: "2025-03-10", rawTime: "18:00", booking: &model.Booking{ID: 1}},
		{id: 2, date: "2025-03-10", rawTime: "6:00 PM", booking: &model.Booking{ID: 1}}, // duplicate raw row
		{id: 3, date: "2025-03-10", rawTime: "18:00", booking: &model.Booking{ID: 7}},
	}

	assert.Equal(t, 1, destinationLoad(rows, "2025-03-10", "18:00", 7))
}

func TestFindSlotRowMatchesNormalizedTime(t *testing.T) {
	rows := []slotRow{
		{id: 11, date: "2025-03-10", rawTime: "6:00 PM", booking: &model.Booking{ID: 4}},
	}

	row := findSlotRow(rows, "2025-03-10", "18:00", 4)
	require.NotNil(t, row)
	assert.Equal(t, int64(11), row.id)

	assert.Nil(t, findSlotRow(rows, "2025-03-10", "18:00", 5))
	assert.Nil(t, findSlotRow(rows, "2025-03-10", "19:00", 4))
}

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"already canonical", "10:00", "10:00", true},
		{"missing zero padding", "9:30", "09:30", true},
		{"afternoon 12h", "1:30 PM", "13:30", true},
		{"morning 12h", "9:15 AM", "09:15", true},
		{"midnight", "12:00 AM", "00:00", true},
		{"noon", "12:00 PM", "12:00", true},
		{"after midnight", "12:45 am", "00:45", true},
		{"lowercase pm", "5:05 pm", "17:05", true},
		{"no space before meridiem", "7:00PM", "19:00", true},
		{"nbsp before meridiem", "9:30 PM", "21:30", true},
		{"dotted meridiem", "8:20 p.m.", "20:20", true},
		{"leading whitespace", "  14:00 ", "14:00", true},
		{"empty", "", SentinelTime, false},
		{"garbage", "soonish", SentinelTime, false},
		{"hour out of range", "25:00", SentinelTime, false},
		{"minute out of range", "10:75", SentinelTime, false},
		{"not numeric", "ab:cd", SentinelTime, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDatesInRange(t *testing.T) {
	dates := DatesInRange(model.DateRange{From: "2025-02-27", To: "2025-03-02"})
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, dates)

	assert.Nil(t, DatesInRange(model.DateRange{From: "2025-03-02", To: "not-a-date"}))
	assert.Nil(t, DatesInRange(model.DateRange{From: "2025-03-05", To: "2025-03-02"}))
}

func TestSlotStart(t *testing.T) {
	start, err := SlotStart(model.TimeSlot{Date: "2025-03-01", Time: "2:30 PM"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC), start)

	_, err = SlotStart(model.TimeSlot{Date: "01.03.2025", Time: "10:00"}, time.UTC)
	assert.Error(t, err)
}

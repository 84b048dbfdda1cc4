package model

// EnrichedSlot is the aggregation output: one (date, time, technique) cell
// of the schedule grid with its bookings, capacity and ownership. It is
// derived and ephemeral, recomputed on every aggregation pass and never
// persisted. Bookings are unique by booking id.
type EnrichedSlot struct {
	Date          string     `json:"date"` // YYYY-MM-DD
	Time          string     `json:"time"` // normalized HH:MM
	Technique     Technique  `json:"technique"`
	Product       *Product   `json:"product,omitempty"`
	InstructorID  int64      `json:"instructor_id"`
	Capacity      int        `json:"capacity"`
	Bookings      []*Booking `json:"bookings"`
	IsOverrideDay bool       `json:"is_override_day"`
}

// Occupancy sums the participants of every booking in the slot. A booking
// counts its explicit participant figure when present, otherwise the group
// product's minimum participants, otherwise one person.
func (s *EnrichedSlot) Occupancy() int {
	total := 0
	for _, b := range s.Bookings {
		total += b.ParticipantCount()
	}
	return total
}

// Remaining is the free capacity left in the slot, floored at zero.
func (s *EnrichedSlot) Remaining() int {
	left := s.Capacity - s.Occupancy()
	if left < 0 {
		return 0
	}
	return left
}

// GeneratedSession is one concrete dated session expanded from a product's
// session rules, with booking counts for that exact date and time.
type GeneratedSession struct {
	Date            string `json:"date"` // YYYY-MM-DD
	Time            string `json:"time"` // normalized HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	Capacity        int    `json:"capacity"`
	PaidBookings    int    `json:"paid_bookings"`
	TotalBookings   int    `json:"total_bookings"`
	FromOverride    bool   `json:"from_override"`
}

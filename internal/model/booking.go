package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date key format used everywhere slots are
// grouped. ISO dates compare lexicographically, so string comparison on
// keys in this layout is chronological.
const DateLayout = "2006-01-02"

// TimeSlot is one reserved unit of a booking. Date and Time are kept as raw
// strings because historical rows contain both 24-hour and locale 12-hour
// time forms; normalization happens during aggregation.
type TimeSlot struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Time         string `json:"time"`
	InstructorID int64  `json:"instructor_id"`
}

// GroupDetail is the metadata of a multi-person group booking.
type GroupDetail struct {
	Size      int       `json:"size"`
	Technique Technique `json:"technique,omitempty"`
}

type Booking struct {
	ID            int64        `json:"id"`
	PublicID      uuid.UUID    `json:"public_id"`
	ProductID     int64        `json:"product_id"`
	CustomerName  string       `json:"customer_name"`
	CustomerEmail string       `json:"customer_email"`
	CustomerPhone string       `json:"customer_phone"`
	Paid          bool         `json:"paid"`
	Participants  *int         `json:"participants"` // nil - not stated on the booking
	Technique     Technique    `json:"technique,omitempty"`
	Group         *GroupDetail `json:"group,omitempty"`
	Slots         []TimeSlot   `json:"slots"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Joined for convenience, not stored on the booking row.
	Product *Product `json:"product,omitempty"`
}

// ParticipantCount is the number of seats the booking occupies: the
// explicit participant count, else the group size, else the booked group
// product's minimum, else one.
func (b *Booking) ParticipantCount() int {
	if b.Participants != nil && *b.Participants > 0 {
		return *b.Participants
	}
	if b.Group != nil && b.Group.Size > 0 {
		return b.Group.Size
	}
	if b.Product != nil && b.Product.Type == ProductTypeGroupClass && b.Product.Detail.MinParticipants > 0 {
		return b.Product.Detail.MinParticipants
	}
	return 1
}

// DateRange is an inclusive range of ISO calendar dates.
type DateRange struct {
	From string `json:"from"` // YYYY-MM-DD
	To   string `json:"to"`   // YYYY-MM-DD
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date string) bool {
	return date >= r.From && date <= r.To
}

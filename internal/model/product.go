package model

import (
	"time"

	"github.com/google/uuid"
)

type ProductType string

const (
	ProductTypeClassPackage ProductType = "CLASS_PACKAGE"
	ProductTypeIntroductory ProductType = "INTRODUCTORY_CLASS"
	ProductTypeGroupClass   ProductType = "GROUP_CLASS"
	ProductTypeOpenStudio   ProductType = "OPEN_STUDIO_SUBSCRIPTION"
)

// SessionRule is a self-describing scheduling rule carried by products that
// do not use the shared availability template (introductory classes run on
// their own fixed cadence).
type SessionRule struct {
	GroupID         uuid.UUID `json:"group_id"`
	Weekday         int       `json:"weekday"` // 0 = Sunday, 6 = Saturday
	StartHour       int       `json:"start_hour"`
	StartMinute     int       `json:"start_minute"`
	DurationMinutes int       `json:"duration_minutes"`
	Capacity        int       `json:"capacity"`
}

// ProductDetail holds the type-specific fields of the product tagged union.
type ProductDetail struct {
	Technique       Technique     `json:"technique,omitempty"`
	SessionCount    int           `json:"session_count,omitempty"`    // CLASS_PACKAGE
	MinParticipants int           `json:"min_participants,omitempty"` // GROUP_CLASS
	MaxParticipants int           `json:"max_participants,omitempty"` // GROUP_CLASS
	SessionRules    []SessionRule `json:"session_rules,omitempty"`    // INTRODUCTORY_CLASS
}

type Product struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Type      ProductType   `json:"type"`
	Price     int           `json:"price"` // in cents
	Detail    ProductDetail `json:"detail"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
}

// HasOwnSchedule reports whether the product defines its own session
// cadence instead of using the weekly availability template.
func (p *Product) HasOwnSchedule() bool {
	return p.Type == ProductTypeIntroductory && len(p.Detail.SessionRules) > 0
}

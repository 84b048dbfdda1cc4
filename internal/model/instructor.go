package model

import "time"

// Instructor is a member of the studio roster. The color tag is only used
// by the schedule grid rendering.
type Instructor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ColorTag  string    `json:"color_tag"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

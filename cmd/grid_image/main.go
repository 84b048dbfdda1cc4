// Renders a week grid from fixture data into schedule_week.png so the
// renderer can be eyeballed without a database.
package main

import (
	"log"
	"os"
	"time"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/render"
)

func main() {
	weekStart := time.Now().AddDate(0, 0, -int(time.Now().Weekday()))

	roster := []*model.Instructor{
		{ID: 1, Name: "Mira", ColorTag: "#4A90D9", IsActive: true},
		{ID: 2, Name: "Jonas", ColorTag: "#D97B4A", IsActive: true},
	}

	two := 2
	slots := []*model.EnrichedSlot{
		{
			Date:         weekStart.AddDate(0, 0, 1).Format(model.DateLayout),
			Time:         "10:00",
			Technique:    model.TechniqueWheel,
			InstructorID: 1,
			Capacity:     6,
			Bookings: []*model.Booking{
				{ID: 1, Participants: &two},
				{ID: 2},
			},
		},
		{
			Date:         weekStart.AddDate(0, 0, 1).Format(model.DateLayout),
			Time:         "14:00",
			Technique:    model.TechniquePainting,
			InstructorID: 2,
			Capacity:     8,
		},
		{
			Date:         weekStart.AddDate(0, 0, 3).Format(model.DateLayout),
			Time:         "18:30",
			Technique:    model.TechniqueHandbuilding,
			InstructorID: 1,
			Capacity:     1,
			Bookings:     []*model.Booking{{ID: 3}},
		},
	}

	png, err := render.WeekImage(weekStart, slots, roster)
	if err != nil {
		log.Fatalf("render week image: %v", err)
	}

	if err := os.WriteFile("schedule_week.png", png, 0o644); err != nil {
		log.Fatalf("write schedule_week.png: %v", err)
	}

	log.Printf("wrote schedule_week.png (%d bytes)", len(png))
}

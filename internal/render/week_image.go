package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/schedule"
)

const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	dayPaddingX     = 8
	slotHeight      = 60.0
	slotRadius      = 6.0
	totalDays       = 7
	defaultMinHour  = 8
	defaultMaxHour  = 21
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 60}

	slotOpenColor    = color.RGBA{133, 193, 85, 220}
	slotPartialColor = color.RGBA{255, 214, 140, 255}
	slotFullColor    = color.RGBA{255, 182, 193, 255}
	slotTextColor    = color.RGBA{20, 24, 28, 230}
	fallbackTagColor = color.RGBA{120, 125, 130, 255}
)

// WeekImage draws one week of the aggregated schedule grid as a PNG. Slots
// are placed by weekday and hour, colored by occupancy, with the owning
// instructor's color tag as a stripe on the left edge.
func WeekImage(weekStart time.Time, slots []*model.EnrichedSlot, roster []*model.Instructor) ([]byte, error) {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	start := normalizeToDay(weekStart)
	today := normalizeToDay(time.Now())

	minHour, maxHour := hourBounds(slots)
	hours := maxHour - minHour + 1
	dayWidth := float64(imageWidth-leftLabelsWidth) / totalDays
	hourHeight := float64(imageHeight-headerHeight) / float64(hours)

	colors := make(map[int64]color.Color, len(roster))
	names := make(map[int64]string, len(roster))
	for _, ins := range roster {
		colors[ins.ID] = parseColorTag(ins.ColorTag)
		names[ins.ID] = ins.Name
	}

	// Day headers and today highlight.
	for day := 0; day < totalDays; day++ {
		date := start.AddDate(0, 0, day)
		x := float64(leftLabelsWidth) + float64(day)*dayWidth

		if date.Equal(today) {
			dc.SetColor(todayBgColor)
			dc.DrawRectangle(x, headerHeight, dayWidth, float64(imageHeight-headerHeight))
			dc.Fill()
		}

		dc.SetColor(textColor)
		label := date.Format("Mon 02.01")
		dc.DrawStringAnchored(label, x+dayWidth/2, headerHeight/2, 0.5, 0.5)
	}

	// Hour labels and grid lines.
	for h := 0; h <= hours; h++ {
		y := float64(headerHeight) + float64(h)*hourHeight
		dc.SetColor(hourLineColor)
		dc.SetLineWidth(0.5)
		dc.DrawLine(leftLabelsWidth, y, imageWidth, y)
		dc.Stroke()

		if h < hours {
			dc.SetColor(hourLabelColor)
			dc.DrawStringAnchored(fmt.Sprintf("%02d:00", minHour+h), leftLabelsWidth/2, y+hourHeight/2, 0.5, 0.5)
		}
	}

	// Slots.
	for _, slot := range slots {
		day, err := schedule.ParseDate(slot.Date)
		if err != nil {
			continue
		}
		offset := int(day.Sub(start).Hours() / 24)
		if offset < 0 || offset >= totalDays {
			continue
		}

		hour, minute := clockOf(slot.Time)
		if hour < minHour || hour > maxHour {
			continue
		}

		x := float64(leftLabelsWidth) + float64(offset)*dayWidth + dayPaddingX
		y := float64(headerHeight) + (float64(hour-minHour)+float64(minute)/60.0)*hourHeight
		w := dayWidth - 2*dayPaddingX
		h := slotHeight
		if hourHeight < h {
			h = hourHeight
		}

		dc.SetColor(occupancyColor(slot))
		dc.DrawRoundedRectangle(x, y, w, h, slotRadius)
		dc.Fill()

		tag, ok := colors[slot.InstructorID]
		if !ok {
			tag = fallbackTagColor
		}
		dc.SetColor(tag)
		dc.DrawRectangle(x, y, 5, h)
		dc.Fill()

		dc.SetColor(slotTextColor)
		label := fmt.Sprintf("%s %s %d/%d", slot.Time, slot.Technique, slot.Occupancy(), slot.Capacity)
		dc.DrawStringAnchored(label, x+w/2, y+h/2-7, 0.5, 0.5)
		if name, ok := names[slot.InstructorID]; ok {
			dc.DrawStringAnchored(name, x+w/2, y+h/2+7, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

func occupancyColor(slot *model.EnrichedSlot) color.Color {
	switch {
	case slot.Occupancy() == 0:
		return slotOpenColor
	case slot.Remaining() > 0:
		return slotPartialColor
	default:
		return slotFullColor
	}
}

func hourBounds(slots []*model.EnrichedSlot) (int, int) {
	minHour, maxHour := defaultMinHour, defaultMaxHour
	for _, slot := range slots {
		h, _ := clockOf(slot.Time)
		if h < minHour {
			minHour = h
		}
		if h > maxHour {
			maxHour = h
		}
	}
	return minHour, maxHour
}

func clockOf(normalized string) (hour, minute int) {
	if len(normalized) != 5 {
		return 0, 0
	}
	hour, _ = strconv.Atoi(normalized[:2])
	minute, _ = strconv.Atoi(normalized[3:])
	return hour, minute
}

func parseColorTag(tag string) color.Color {
	if len(tag) != 7 || tag[0] != '#' {
		return fallbackTagColor
	}
	r, err1 := strconv.ParseUint(tag[1:3], 16, 8)
	g, err2 := strconv.ParseUint(tag[3:5], 16, 8)
	b, err3 := strconv.ParseUint(tag[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return fallbackTagColor
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/render"
	"github.com/glazehaus/studio_scheduler/internal/repository"
	"github.com/glazehaus/studio_scheduler/internal/schedule"
	"github.com/glazehaus/studio_scheduler/internal/service"
)

type Handler struct {
	scheduleService   *service.ScheduleService
	rescheduleService *service.RescheduleService
	instructorRepo    *repository.InstructorRepository
	uiHorizonDays     int
	logger            *zap.Logger
}

func NewHandler(
	scheduleService *service.ScheduleService,
	rescheduleService *service.RescheduleService,
	instructorRepo *repository.InstructorRepository,
	uiHorizonDays int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		scheduleService:   scheduleService,
		rescheduleService: rescheduleService,
		instructorRepo:    instructorRepo,
		uiHorizonDays:     uiHorizonDays,
		logger:            logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ResolveAvailability returns the effective bookable slots for one date.
func (h *Handler) ResolveAvailability(c *gin.Context) {
	date := c.Param("date")

	slots, err := h.scheduleService.ResolveAvailability(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if slots == nil {
		slots = []model.TemplateSlot{}
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// AggregateSchedule returns the occupancy grid for ?from=...&to=...
func (h *Handler) AggregateSchedule(c *gin.Context) {
	dateRange := model.DateRange{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if _, err := schedule.ParseDate(dateRange.From); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'from' date"})
		return
	}
	if _, err := schedule.ParseDate(dateRange.To); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'to' date"})
		return
	}

	grid, err := h.scheduleService.AggregateSchedule(c.Request.Context(), dateRange, time.Now())
	if err != nil {
		h.logger.Error("Schedule aggregation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate schedule"})
		return
	}

	c.JSON(http.StatusOK, grid)
}

// ScheduleImage renders the week starting at ?from=... as a PNG.
func (h *Handler) ScheduleImage(c *gin.Context) {
	from, err := schedule.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'from' date"})
		return
	}

	dateRange := model.DateRange{
		From: from.Format(model.DateLayout),
		To:   from.AddDate(0, 0, 6).Format(model.DateLayout),
	}
	grid, err := h.scheduleService.AggregateSchedule(c.Request.Context(), dateRange, time.Now())
	if err != nil {
		h.logger.Error("Schedule aggregation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate schedule"})
		return
	}

	roster, err := h.instructorRepo.GetRoster(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load roster"})
		return
	}

	var slots []*model.EnrichedSlot
	for _, byDate := range grid {
		for _, daySlots := range byDate {
			slots = append(slots, daySlots...)
		}
	}

	png, err := render.WeekImage(from, slots, roster)
	if err != nil {
		h.logger.Error("Week image rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render schedule image"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// RecurringSessions expands a self-scheduling product's sessions over
// ?days=N, defaulting to the configured UI horizon.
func (h *Handler) RecurringSessions(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	days := h.uiHorizonDays
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'days' parameter"})
			return
		}
	}

	sessions, err := h.scheduleService.GenerateRecurringSessions(c.Request.Context(), productID, days, time.Now())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if sessions == nil {
		sessions = []*model.GeneratedSession{}
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "sessions": sessions})
}

// RequestReschedule drives the policy engine for one reschedule request. A
// lead-time violation is a structured 409, not a server error; a
// collaborator failure during persistence comes back as 502 with the
// message verbatim.
func (h *Handler) RequestReschedule(c *gin.Context) {
	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reschedule request: " + err.Error()})
		return
	}

	result, err := h.rescheduleService.RequestReschedule(c.Request.Context(), req, time.Now())
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	switch result.State {
	case model.RescheduleStateLeadTimeViolation:
		c.JSON(http.StatusConflict, result)
	case model.RescheduleStateApplied:
		c.JSON(http.StatusOK, result)
	default:
		c.JSON(http.StatusBadGateway, result)
	}
}

// RemoveBookingSlot deletes one reserved slot from a booking.
func (h *Handler) RemoveBookingSlot(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var slot model.TimeSlot
	if err := c.ShouldBindJSON(&slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot payload: " + err.Error()})
		return
	}

	if err := h.scheduleService.RemoveBookingSlot(c.Request.Context(), bookingID, slot); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

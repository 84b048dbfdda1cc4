package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/glazehaus/studio_scheduler/internal/repository"
	"github.com/glazehaus/studio_scheduler/internal/service"
)

// NewRouter wires the admin/staff JSON API. Authentication for staff
// sessions lives in front of this service and is not handled here.
func NewRouter(
	scheduleService *service.ScheduleService,
	rescheduleService *service.RescheduleService,
	instructorRepo *repository.InstructorRepository,
	environment string,
	uiHorizonDays int,
	logger *zap.Logger,
) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	h := NewHandler(scheduleService, rescheduleService, instructorRepo, uiHorizonDays, logger)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/availability/:date", h.ResolveAvailability)
		api.GET("/schedule", h.AggregateSchedule)
		api.GET("/schedule/image", h.ScheduleImage)
		api.GET("/products/:id/sessions", h.RecurringSessions)
		api.POST("/reschedule", h.RequestReschedule)
		api.DELETE("/bookings/:id/slots", h.RemoveBookingSlot)
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}

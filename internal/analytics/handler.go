package analytics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulseview/activity-analytics/internal/event"
)

const defaultActivityLimit = 100

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/analytics/stats", h.GetStats)
	r.GET("/api/v1/events/:id", h.GetEvent)
	r.GET("/api/v1/users/:id/activity", h.GetUserActivity)
	r.GET("/healthz", h.HealthCheck)
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ev, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve event"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

func (h *Handler) GetStats(c *gin.Context) {
	var filter event.Filter

	if startParam := c.Query("start"); startParam != "" {
		start, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'start' timestamp, use RFC3339 (e.g. 2006-01-02T15:04:05Z)"})
			return
		}
		filter.Start = &start
	}

	if endParam := c.Query("end"); endParam != "" {
		end, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'end' timestamp, use RFC3339 (e.g. 2006-01-02T15:04:05Z)"})
			return
		}
		filter.End = &end
	}

	filter.EventType = c.Query("eventType")

	h.logger.Debug("GetStats called",
		zap.String("event_type", filter.EventType),
	)

	stats := h.service.GetStats(c.Request.Context(), filter)

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetUserActivity(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}

	limit := defaultActivityLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter, must be a positive integer"})
			return
		}
		limit = parsed
	}

	events, err := h.service.GetUserActivity(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve user activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":      userID,
		"events":      events,
		"totalEvents": len(events),
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	healthy, dependencies := h.service.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"healthy":      healthy,
		"dependencies": dependencies,
	})
}

package event

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

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
	r.POST("/api/v1/events", h.TrackEvent)
	r.POST("/api/v1/events/batch", h.TrackEventBatch)
	r.GET("/healthz", h.HealthCheck)
}

// TrackRequest is the wire shape of one submitted event. The id and
// timestamp are optional; missing values are filled in server-side.
type TrackRequest struct {
	ID        string    `json:"id"`
	EventType string    `json:"eventType" binding:"required"`
	UserID    *string   `json:"userId"`
	DeviceID  *string   `json:"deviceId"`
	Path      *string   `json:"path"`
	Meta      Meta      `json:"meta"`
	Timestamp time.Time `json:"timestamp"`
}

func (req *TrackRequest) toEvent() *Event {
	event := NewEvent(req.EventType, req.UserID, req.DeviceID, req.Path, req.Meta)

	if id, err := uuid.Parse(req.ID); err == nil {
		event.ID = id
	}
	if !req.Timestamp.IsZero() {
		event.Timestamp = req.Timestamp
	}

	return event
}

func (h *Handler) TrackEvent(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event := req.toEvent()

	if err := h.service.TrackEvent(c.Request.Context(), event); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEventType), errors.Is(err, ErrInvalidTimestamp):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track event"})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"eventId": event.ID.String(),
		"success": true,
	})
}

func (h *Handler) TrackEventBatch(c *gin.Context) {
	var reqs []TrackRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "events list is empty"})
		return
	}

	events := make([]*Event, 0, len(reqs))
	for _, req := range reqs {
		events = append(events, req.toEvent())
	}

	successCount, failedIDs, err := h.service.TrackEventBatch(c.Request.Context(), events)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track batch"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":        true,
		"processedCount": successCount,
		"failedEventIds": failedIDs,
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

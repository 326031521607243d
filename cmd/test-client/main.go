package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pulseview/activity-analytics/internal/event"
)

const eventServiceURL = "http://localhost:8080"

type trackRequest struct {
	ID        string         `json:"id"`
	EventType string         `json:"eventType"`
	UserID    *string        `json:"userId,omitempty"`
	DeviceID  *string        `json:"deviceId,omitempty"`
	Path      *string        `json:"path,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func strPtr(s string) *string { return &s }

func main() {
	client := &http.Client{Timeout: 5 * time.Second}

	healthResp, err := client.Get(eventServiceURL + "/healthz")
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	healthResp.Body.Close()
	fmt.Printf("Health check: %s\n\n", healthResp.Status)

	fmt.Println("Sending single event")
	userID := uuid.New().String()
	deviceID := uuid.New().String()

	single := trackRequest{
		ID:        uuid.New().String(),
		EventType: event.EventTypePageView,
		UserID:    &userID,
		DeviceID:  &deviceID,
		Path:      strPtr("/home"),
		Timestamp: time.Now().UTC(),
	}

	resp, err := postJSON(client, eventServiceURL+"/api/v1/events", single)
	if err != nil {
		log.Fatalf("Failed to track event: %v", err)
	}
	fmt.Printf("Event tracked: %v\n\n", resp["eventId"])

	fmt.Println("Sending batch of events")
	batch := []trackRequest{
		{
			ID:        uuid.New().String(),
			EventType: event.EventTypeSearch,
			UserID:    &userID,
			DeviceID:  &deviceID,
			Meta:      map[string]any{"code": "P0171", "brand": "toyota"},
			Timestamp: time.Now().UTC(),
		},
		{
			ID:        uuid.New().String(),
			EventType: event.EventTypeErrorCodeView,
			UserID:    &userID,
			DeviceID:  &deviceID,
			Path:      strPtr("/codes/P0171"),
			Meta:      map[string]any{"errorCode": "P0171"},
			Timestamp: time.Now().UTC(),
		},
		{
			ID:        uuid.New().String(),
			EventType: event.EventTypeClick,
			DeviceID:  &deviceID,
			Meta:      map[string]any{"label": "search-button"},
			Timestamp: time.Now().UTC(),
		},
	}

	batchResp, err := postJSON(client, eventServiceURL+"/api/v1/events/batch", batch)
	if err != nil {
		log.Fatalf("Failed to track batch: %v", err)
	}
	fmt.Printf("Batch processed: %v/%d events\n", batchResp["processedCount"], len(batch))

	fmt.Println("\nAll events submitted")
}

func postJSON(client *http.Client, url string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

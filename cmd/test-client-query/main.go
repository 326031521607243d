package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pulseview/activity-analytics/internal/analytics"
)

const queryServiceURL = "http://localhost:8081"

func main() {
	client := &http.Client{Timeout: 5 * time.Second}

	healthResp, err := client.Get(queryServiceURL + "/healthz")
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	healthResp.Body.Close()
	fmt.Printf("Health check: %s\n\n", healthResp.Status)

	now := time.Now().UTC()
	from := now.Add(-24 * time.Hour)

	params := url.Values{}
	params.Set("start", from.Format(time.RFC3339))
	params.Set("end", now.Format(time.RFC3339))

	resp, err := client.Get(queryServiceURL + "/api/v1/analytics/stats?" + params.Encode())
	if err != nil {
		log.Fatalf("Failed to get stats: %v", err)
	}
	defer resp.Body.Close()

	var stats analytics.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		log.Fatalf("Failed to decode stats: %v", err)
	}

	fmt.Printf("Total events: %d\n", stats.TotalPageViews)
	fmt.Printf("Total searches (top-10 codes): %d\n\n", stats.TotalSearches)

	fmt.Printf("Top %d paths:\n", len(stats.PageViews))
	for i, p := range stats.PageViews {
		fmt.Printf("   %d. %s: %d\n", i+1, p.Path, p.Count)
	}

	fmt.Printf("\nTop %d searched codes:\n", len(stats.TopSearchedCodes))
	for i, c := range stats.TopSearchedCodes {
		fmt.Printf("   %d. %s: %d\n", i+1, c.Code, c.Count)
	}

	fmt.Printf("\nActivity by hour (%d buckets):\n", len(stats.ActivityByHour))
	for _, h := range stats.ActivityByHour {
		fmt.Printf("   %s: %d\n", h.Hour, h.Count)
	}

	fmt.Println("\nAll queries completed successfully!")
}

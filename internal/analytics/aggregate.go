package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/pulseview/activity-analytics/internal/event"
)

// Ranking caps. Error codes get a wider window than the other lists so
// operators see more of the tail.
const (
	topPathsLimit      = 10
	topCodesLimit      = 10
	topBrandsLimit     = 10
	topUsersLimit      = 10
	topErrorCodesLimit = 15
)

// counter tallies occurrences per key while remembering the order keys were
// first seen. ranked sorts with sort.SliceStable so equally frequent keys
// keep that discovery order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) ranked(limit int) []bucket {
	buckets := make([]bucket, 0, len(c.order))
	for _, key := range c.order {
		buckets = append(buckets, bucket{key: key, count: c.counts[key]})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].count > buckets[j].count
	})

	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

// sortedByKey returns every bucket ordered by key string, ascending.
func (c *counter) sortedByKey() []bucket {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.Strings(keys)

	buckets := make([]bucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, bucket{key: key, count: c.counts[key]})
	}
	return buckets
}

type bucket struct {
	key   string
	count int
}

// hourLabel formats the process-local hour of t with no zero padding.
// ActivityByHour sorts these labels as strings, so "10:00" comes before
// "2:00". The dashboard depends on that exact ordering; making it
// chronological is a one-line change here (zero-pad with %02d).
func hourLabel(t time.Time) string {
	return strconv.Itoa(t.Local().Hour()) + ":00"
}

// Compute derives the dashboard stats from one finite event collection.
// It is a pure function: no I/O, no shared state, input is never mutated,
// and every output field is freshly allocated. An empty input yields zero
// counts and empty lists.
func Compute(events []event.Event) Stats {
	paths := newCounter()
	codes := newCounter()
	brands := newCounter()
	users := newCounter()
	errorCodes := newCounter()
	hours := newCounter()

	for _, ev := range events {
		if ev.Path != nil {
			paths.add(*ev.Path)
		}

		if ev.EventType == event.EventTypeSearch {
			if code, ok := ev.Meta.GetString(event.MetaKeyCode); ok {
				codes.add(code)
			}
		}

		if brand, ok := ev.Meta.GetString(event.MetaKeyBrand); ok {
			brands.add(brand)
		}

		if ev.UserID != nil && *ev.UserID != "" {
			users.add(*ev.UserID)
		}

		if errorCode, ok := ev.Meta.GetString(event.MetaKeyErrorCode); ok {
			errorCodes.add(errorCode)
		}

		hours.add(hourLabel(ev.Timestamp))
	}

	topCodes := codes.ranked(topCodesLimit)

	// Summed over the already truncated top-10 list: with more than 10
	// distinct codes this undercounts the true search total. Known quirk,
	// kept for compatibility with the existing dashboard.
	totalSearches := 0
	for _, b := range topCodes {
		totalSearches += b.count
	}

	stats := Stats{
		TotalPageViews:     len(events),
		PageViews:          make([]PathCount, 0, topPathsLimit),
		TopSearchedCodes:   make([]CodeCount, 0, len(topCodes)),
		TopBrands:          make([]BrandCount, 0, topBrandsLimit),
		TopUsers:           make([]UserCount, 0, topUsersLimit),
		ErrorCodeFrequency: make([]ErrorCodeCount, 0, topErrorCodesLimit),
		ActivityByHour:     make([]HourCount, 0, len(hours.order)),
		TotalSearches:      totalSearches,
	}

	for _, b := range paths.ranked(topPathsLimit) {
		stats.PageViews = append(stats.PageViews, PathCount{Path: b.key, Count: b.count})
	}
	for _, b := range topCodes {
		stats.TopSearchedCodes = append(stats.TopSearchedCodes, CodeCount{Code: b.key, Count: b.count})
	}
	for _, b := range brands.ranked(topBrandsLimit) {
		stats.TopBrands = append(stats.TopBrands, BrandCount{Brand: b.key, Count: b.count})
	}
	for _, b := range users.ranked(topUsersLimit) {
		stats.TopUsers = append(stats.TopUsers, UserCount{UserID: b.key, Count: b.count})
	}
	for _, b := range errorCodes.ranked(topErrorCodesLimit) {
		stats.ErrorCodeFrequency = append(stats.ErrorCodeFrequency, ErrorCodeCount{ErrorCode: b.key, Count: b.count})
	}
	for _, b := range hours.sortedByKey() {
		stats.ActivityByHour = append(stats.ActivityByHour, HourCount{Hour: b.key, Count: b.count})
	}

	return stats
}

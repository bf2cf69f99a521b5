package pricing

import (
	"math"
	"strings"
	"time"

	"rentmarket/internal/pkg/apperr"
)

const (
	DateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

type Quote struct {
	Days      int     `json:"days"`
	TotalCost float64 `json:"totalCost"`
}

// ComputeCost charges whole days: a partial day counts as a full one and a
// same-day rental costs one day.
func ComputeCost(pricePerDay float64, start, end time.Time) (Quote, error) {
	if pricePerDay <= 0 || math.IsNaN(pricePerDay) || math.IsInf(pricePerDay, 0) {
		return Quote{}, apperr.Validation("price", "must be greater than 0")
	}
	if start.IsZero() {
		return Quote{}, apperr.Validation("startDate", "is required")
	}
	if end.IsZero() {
		return Quote{}, apperr.Validation("endDate", "is required")
	}
	if end.Before(start) {
		return Quote{}, apperr.Validation("endDate", "must not be before startDate")
	}

	days := Days(start, end)
	return Quote{
		Days:      days,
		TotalCost: roundCents(float64(days) * pricePerDay),
	}, nil
}

// Days returns max(1, ceil(end - start)) in days.
func Days(start, end time.Time) int {
	d := int(math.Ceil(float64(end.Sub(start)) / float64(day)))
	if d < 1 {
		return 1
	}
	return d
}

// ParseDate accepts YYYY-MM-DD or RFC3339.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperr.Validation(field, "is required")
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation(field, "must be a date (YYYY-MM-DD or RFC3339)")
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

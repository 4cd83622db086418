package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         int32     `json:"id"`
	VehicleID  int32     `json:"vehicle_id"`
	ReviewerID int32     `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	CreatedOn  time.Time `json:"date"`
}

func (r *Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return NewValidationError("rating", "must be an integer between 1 and 5")
	}
	if strings.TrimSpace(r.Text) == "" {
		return NewValidationError("text", "is required")
	}
	return nil
}

// RatingSummary is the rolling average for one vehicle. Average is only
// meaningful when Count > 0.
type RatingSummary struct {
	VehicleID int32   `json:"vehicle_id"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
}

func (s RatingSummary) HasData() bool {
	return s.Count > 0
}

// MarshalJSON reports a missing average as null rather than 0.
func (s RatingSummary) MarshalJSON() ([]byte, error) {
	out := struct {
		VehicleID int32    `json:"vehicle_id"`
		Count     int      `json:"count"`
		Average   *float64 `json:"average"`
	}{VehicleID: s.VehicleID, Count: s.Count}
	if s.HasData() {
		avg := s.Average
		out.Average = &avg
	}
	return json.Marshal(out)
}

package domain

import (
	"math"
	"time"
)

// LocationSample is the latest known position of a vehicle. A new sample
// replaces the previous one.
type LocationSample struct {
	VehicleID  int32     `json:"vehicle_id"`
	ReporterID int32     `json:"reporter_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	CapturedAt time.Time `json:"captured_at"`
}

func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return NewValidationError("lat", "must be between -90 and 90")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return NewValidationError("lng", "must be between -180 and 180")
	}
	return nil
}

package dispatch

import (
	"fmt"
	"math"

	"github.com/UnknownOlympus/hermes/internal/models"
)

// CoordinateCheck selects how strictly request coordinates are validated.
type CoordinateCheck string

const (
	// CoordinateCheckTruthy rejects absent, non-finite and zero coordinates.
	CoordinateCheckTruthy CoordinateCheck = "truthy"
	// CoordinateCheckPresence rejects only absent and non-finite coordinates.
	CoordinateCheckPresence CoordinateCheck = "presence"
)

// ParseCoordinateCheck resolves a configured mode name.
func ParseCoordinateCheck(s string) (CoordinateCheck, error) {
	switch CoordinateCheck(s) {
	case CoordinateCheckTruthy, CoordinateCheckPresence:
		return CoordinateCheck(s), nil
	default:
		return "", fmt.Errorf("unknown coordinate check %q", s)
	}
}

// Input is the raw request body. Nil means the field was absent.
type Input struct {
	PickupLat  *float64
	PickupLng  *float64
	DropoffLat *float64
	DropoffLng *float64
}

// Validate checks the four coordinates and builds the pickup request.
func Validate(in Input, mode CoordinateCheck) (models.PickupRequest, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"pickup_lat", in.PickupLat},
		{"pickup_lng", in.PickupLng},
		{"dropoff_lat", in.DropoffLat},
		{"dropoff_lng", in.DropoffLng},
	}

	for _, f := range fields {
		if f.value == nil || math.IsNaN(*f.value) || math.IsInf(*f.value, 0) {
			return models.PickupRequest{}, fmt.Errorf("%w: %s is required", ErrInvalidRequest, f.name)
		}
		if mode != CoordinateCheckPresence && *f.value == 0 {
			return models.PickupRequest{}, fmt.Errorf("%w: %s must be non-zero", ErrInvalidRequest, f.name)
		}
	}

	return models.PickupRequest{
		Pickup:  models.GeoPoint{Latitude: *in.PickupLat, Longitude: *in.PickupLng},
		Dropoff: models.GeoPoint{Latitude: *in.DropoffLat, Longitude: *in.DropoffLng},
	}, nil
}

package models

// GeoPoint represents a geographical point defined by its latitude and longitude.
type GeoPoint struct {
	Latitude  float64 // Latitude of the geographical point.
	Longitude float64 // Longitude of the geographical point.
}

// PickupRequest is a validated request for nearby drivers between a pickup and a dropoff point.
type PickupRequest struct {
	Pickup  GeoPoint // Pickup is where the rider waits.
	Dropoff GeoPoint // Dropoff is where the trip ends.
}

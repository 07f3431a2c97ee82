package models

// RiderContext holds the per-request facts about the authenticated rider.
type RiderContext struct {
	IsDiscountEligible bool
}

// Candidate is a vehicle returned by the geospatial index near a pickup point.
type Candidate struct {
	VehicleID           string   // VehicleID is the vehicle's primary key.
	ExternalReferenceID string   // ExternalReferenceID is the operator-issued reference (uts_id).
	Location            GeoPoint // Location is the last known vehicle position.
}

// TravelEstimate is a single routing matrix cell. Nil fields mean the provider
// returned no value for that cell.
type TravelEstimate struct {
	ETASeconds     *float64
	DistanceMeters *float64
}

// ProximityResult pairs a candidate with its travel estimate to the pickup point.
type ProximityResult struct {
	Candidate Candidate
	TravelEstimate
}

// TripDistance is the road distance of the pickup to dropoff route.
type TripDistance struct {
	Meters float64
}

// RankedCandidate is a single entry of the ranked response.
type RankedCandidate struct {
	VehicleID           string
	ExternalReferenceID string
	ETASeconds          *float64
	DistanceMeters      *float64
	Fare                Fare
	TripDistanceMeters  float64
}

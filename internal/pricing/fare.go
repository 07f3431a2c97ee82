// Package pricing computes trip fares from the road distance of the trip.
package pricing

import (
	"math"

	"github.com/UnknownOlympus/hermes/internal/models"
)

// Tariff constants. BaseFare covers the first kilometer inclusive.
const (
	BaseFare         = 35.00
	PerKmRate        = 15.00
	DiscountFraction = 0.20
	includedKm       = 1.0
	metersPerKm      = 1000.0
)

// CalculateFare returns the unrounded fare for a trip of tripDistanceMeters.
// Discount-eligible riders pay (1 - DiscountFraction) of the regular fare.
func CalculateFare(tripDistanceMeters float64, isDiscountEligible bool) models.Fare {
	tripKm := tripDistanceMeters / metersPerKm
	billableExtraKm := math.Max(0, tripKm-includedKm)

	fare := BaseFare + billableExtraKm*PerKmRate
	if isDiscountEligible {
		fare *= 1 - DiscountFraction
	}

	return models.Fare{Amount: fare}
}

// Package ranking orders matched candidates for the pickup response.
package ranking

import (
	"cmp"
	"math"
	"slices"

	"github.com/UnknownOlympus/hermes/internal/models"
)

// MaxResults is the number of candidates returned to the rider.
const MaxResults = 3

// Rank builds ranked entries from proximity results and the trip fare, sorts them
// ascending by ETA and keeps at most MaxResults. Unknown ETAs sort last and keep
// their input order.
func Rank(results []models.ProximityResult, fare models.Fare, trip models.TripDistance) []models.RankedCandidate {
	ranked := make([]models.RankedCandidate, 0, len(results))
	for _, res := range results {
		ranked = append(ranked, models.RankedCandidate{
			VehicleID:           res.Candidate.VehicleID,
			ExternalReferenceID: res.Candidate.ExternalReferenceID,
			ETASeconds:          res.ETASeconds,
			DistanceMeters:      res.DistanceMeters,
			Fare:                fare,
			TripDistanceMeters:  trip.Meters,
		})
	}

	slices.SortStableFunc(ranked, func(a, b models.RankedCandidate) int {
		return cmp.Compare(etaSortKey(a.ETASeconds), etaSortKey(b.ETASeconds))
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}

	return ranked
}

// etaSortKey maps a missing ETA to +Inf so it compares after every known value.
func etaSortKey(eta *float64) float64 {
	if eta == nil {
		return math.Inf(1)
	}
	return *eta
}

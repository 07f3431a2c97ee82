package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/hermes/internal/models"
	"github.com/jackc/pgx/v5"
)

// IsDiscountEligible reports whether the rider's profile carries the student flag.
// A missing profile or a NULL flag is treated as not eligible.
func (r *Repository) IsDiscountEligible(ctx context.Context, riderID string) (bool, error) {
	query := `
		SELECT COALESCE(is_student, false)
		FROM public.profiles
		WHERE id = $1;
	`

	var eligible bool
	err := r.db.QueryRow(ctx, query, riderID).Scan(&eligible)
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.DebugContext(ctx, "No profile found, using regular pricing")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query rider profile: %w", err)
	}

	return eligible, nil
}

// NearbyVehicles calls the nearby_vehicles database function, which owns the search
// radius and the result limit (2 km, 5 vehicles).
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - point: The pickup point to search around.
//
// Returns:
// - A slice of models.Candidate, empty when no vehicle is in range.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) NearbyVehicles(ctx context.Context, point models.GeoPoint) ([]models.Candidate, error) {
	candidates := []models.Candidate{}
	query := `
		SELECT id::text, COALESCE(uts_id, ''), lat, long
		FROM public.nearby_vehicles($1, $2);
	`

	rows, err := r.db.Query(ctx, query, point.Latitude, point.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby vehicles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cand models.Candidate
		if errScan := rows.Scan(
			&cand.VehicleID, &cand.ExternalReferenceID, &cand.Location.Latitude, &cand.Location.Longitude,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan nearby vehicle: %w", errScan)
		}
		candidates = append(candidates, cand)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Nearby vehicles fetched", "count", len(candidates))

	return candidates, nil
}

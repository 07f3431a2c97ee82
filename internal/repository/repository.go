package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/hermes/internal/models"
)

type Repository struct {
	db  Database
	log *slog.Logger
}

// ProfileStore reads rider profile facts used for pricing.
type ProfileStore interface {
	IsDiscountEligible(ctx context.Context, riderID string) (bool, error)
}

// VehicleLocator returns candidate vehicles near a point. Radius and result count
// are owned by the implementation.
type VehicleLocator interface {
	NearbyVehicles(ctx context.Context, point models.GeoPoint) ([]models.Candidate, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

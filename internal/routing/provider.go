package routing

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/hermes/internal/models"
)

// Provider is an interface for routing services that estimate travel between points.
//
// PickupMatrix returns one estimate per source, in source order, for travel from each
// source to the single target. A source with no matrix entry gets an estimate with nil fields.
//
// RouteDistance returns the road distance in meters of the primary route between two points.
type Provider interface {
	PickupMatrix(ctx context.Context, sources []models.GeoPoint, target models.GeoPoint) ([]models.TravelEstimate, error)
	RouteDistance(ctx context.Context, from, to models.GeoPoint) (float64, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for routing providers.
var (
	// ErrNoRoute is returned when the provider answers but no route distance can be extracted.
	ErrNoRoute = errors.New("routing provider returned no route")
	// ErrMissingAPIKey is returned when a call needs a provider key that was not configured.
	ErrMissingAPIKey = errors.New("routing provider API key is not configured")
	// ErrUnauthorized is returned when the provider rejects the configured key.
	ErrUnauthorized = errors.New("routing provider rejected the API key")
	// ErrUnexpectedStatus is returned for any other non-success HTTP status.
	ErrUnexpectedStatus = errors.New("routing provider returned unexpected status")
)

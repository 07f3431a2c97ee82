package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/UnknownOlympus/hermes/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to estimate pickup ETAs
// with the Distance Matrix API and trip distances with the Directions API.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	mode   maps.Mode       // mode is the travel mode used for every request
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// elementStatusOK is the Distance Matrix status of an element with a usable value.
const elementStatusOK = "OK"

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
// Google has no motorcycle profile, so every profile maps to driving.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, mode: maps.TravelModeDriving, log: log}
}

// PickupMatrix queries the Distance Matrix API with every source as an origin and
// the target as the only destination.
func (gp *GoogleProvider) PickupMatrix(
	ctx context.Context,
	sources []models.GeoPoint,
	target models.GeoPoint,
) ([]models.TravelEstimate, error) {
	gp.log.DebugContext(ctx, "Requesting distance matrix from Google Maps", "sources", len(sources))

	origins := make([]string, 0, len(sources))
	for _, src := range sources {
		origins = append(origins, latLng(src))
	}

	req := &maps.DistanceMatrixRequest{
		Origins:      origins,
		Destinations: []string{latLng(target)},
		Mode:         gp.mode,
	}
	resp, err := gp.client.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distance matrix: %w", err)
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}

	estimates := make([]models.TravelEstimate, len(sources))
	for idx := range sources {
		if idx >= len(resp.Rows) || len(resp.Rows[idx].Elements) == 0 {
			continue
		}
		elem := resp.Rows[idx].Elements[0]
		if elem == nil || elem.Status != elementStatusOK {
			continue
		}
		eta := elem.Duration.Seconds()
		meters := float64(elem.Distance.Meters)
		estimates[idx] = models.TravelEstimate{ETASeconds: &eta, DistanceMeters: &meters}
	}

	return estimates, nil
}

// RouteDistance returns the summed leg distance of the first route the Directions API returns.
func (gp *GoogleProvider) RouteDistance(ctx context.Context, from, to models.GeoPoint) (float64, error) {
	gp.log.DebugContext(ctx, "Requesting trip route from Google Maps")

	req := &maps.DirectionsRequest{
		Origin:      latLng(from),
		Destination: latLng(to),
		Mode:        gp.mode,
	}
	routes, _, err := gp.client.Directions(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch directions: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, ErrNoRoute
	}

	var meters int
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
	}

	return float64(meters), nil
}

func latLng(p models.GeoPoint) string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/hermes/internal/metrics"
	"github.com/UnknownOlympus/hermes/internal/models"
	"github.com/UnknownOlympus/hermes/internal/pricing"
	"github.com/UnknownOlympus/hermes/internal/ranking"
	"github.com/UnknownOlympus/hermes/internal/repository"
	"github.com/UnknownOlympus/hermes/internal/routing"
	"golang.org/x/sync/errgroup"
)

const (
	operationMatrix = "matrix"
	operationRoute  = "route"
)

// Service answers nearest-driver requests: it finds vehicles around the pickup,
// estimates their travel to it, prices the trip and keeps the three fastest.
type Service struct {
	log             *slog.Logger              // Logger for service activities
	profiles        repository.ProfileStore   // Rider profile lookups for discounts
	locator         repository.VehicleLocator // Geospatial vehicle search
	provider        routing.Provider          // Matrix and route estimates
	providerName    string                    // Name of the provider for metrics labeling
	metrics         *metrics.Metrics          // Metrics for tracking service performance
	coordinateCheck CoordinateCheck           // How strictly coordinates are validated
}

// NewService creates a new instance of Service.
func NewService(
	log *slog.Logger,
	profiles repository.ProfileStore,
	locator repository.VehicleLocator,
	provider routing.Provider,
	providerName string,
	metrics *metrics.Metrics,
	coordinateCheck CoordinateCheck,
) *Service {
	return &Service{
		log:             log,
		profiles:        profiles,
		locator:         locator,
		provider:        provider,
		providerName:    providerName,
		metrics:         metrics,
		coordinateCheck: coordinateCheck,
	}
}

// FindNearest returns up to three ranked vehicles for the rider, sharing a single
// fare and trip distance. An empty riderID means the request carries no identity.
// Returned errors wrap one of the package error kinds.
func (s *Service) FindNearest(ctx context.Context, riderID string, in Input) ([]models.RankedCandidate, error) {
	ranked, err := s.findNearest(ctx, riderID, in)
	s.metrics.Requests.WithLabelValues(outcome(err, len(ranked))).Inc()
	return ranked, err
}

func (s *Service) findNearest(ctx context.Context, riderID string, in Input) ([]models.RankedCandidate, error) {
	req, err := Validate(in, s.coordinateCheck)
	if err != nil {
		return nil, err
	}

	if riderID == "" {
		return nil, ErrUnauthorized
	}

	rider, candidates, err := s.resolve(ctx, riderID, req.Pickup)
	if err != nil {
		return nil, err
	}

	s.metrics.CandidatesLocated.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		s.log.DebugContext(ctx, "No vehicles near pickup")
		return []models.RankedCandidate{}, nil
	}

	sources := make([]models.GeoPoint, len(candidates))
	for i, cand := range candidates {
		sources[i] = cand.Location
	}

	start := time.Now()
	estimates, err := s.provider.PickupMatrix(ctx, sources, req.Pickup)
	s.observe(operationMatrix, start, err)
	if err != nil {
		return nil, classifyRouting("route matrix", err)
	}
	if len(estimates) != len(candidates) {
		return nil, fmt.Errorf("%w: route matrix returned %d estimates for %d vehicles",
			ErrUpstream, len(estimates), len(candidates))
	}

	start = time.Now()
	tripMeters, err := s.provider.RouteDistance(ctx, req.Pickup, req.Dropoff)
	s.observe(operationRoute, start, err)
	if err != nil {
		return nil, classifyRouting("trip route", err)
	}

	fare := pricing.CalculateFare(tripMeters, rider.IsDiscountEligible)

	results := make([]models.ProximityResult, len(candidates))
	for i, cand := range candidates {
		results[i] = models.ProximityResult{Candidate: cand, TravelEstimate: estimates[i]}
	}

	ranked := ranking.Rank(results, fare, models.TripDistance{Meters: tripMeters})
	s.log.DebugContext(ctx, "Nearest vehicles ranked",
		"candidates", len(candidates),
		"returned", len(ranked),
		"trip_meters", tripMeters,
		"discounted", rider.IsDiscountEligible,
	)

	return ranked, nil
}

// resolve reads the rider profile and searches for vehicles at the same time.
// A profile failure wins over a locator failure.
func (s *Service) resolve(
	ctx context.Context,
	riderID string,
	pickup models.GeoPoint,
) (models.RiderContext, []models.Candidate, error) {
	var (
		rider                 models.RiderContext
		candidates            []models.Candidate
		profileErr, locateErr error
		g                     errgroup.Group
	)

	g.Go(func() error {
		rider.IsDiscountEligible, profileErr = s.profiles.IsDiscountEligible(ctx, riderID)
		return profileErr
	})
	g.Go(func() error {
		candidates, locateErr = s.locator.NearbyVehicles(ctx, pickup)
		return locateErr
	})

	if err := g.Wait(); err != nil {
		if profileErr != nil {
			s.log.ErrorContext(ctx, "Failed to read rider profile", "error", profileErr)
			return rider, nil, fmt.Errorf("%w: rider profile: %w", ErrUpstream, profileErr)
		}
		s.log.ErrorContext(ctx, "Failed to locate vehicles", "error", locateErr)
		return rider, nil, fmt.Errorf("%w: vehicle search: %w", ErrUpstream, locateErr)
	}

	return rider, candidates, nil
}

func (s *Service) observe(operation string, start time.Time, err error) {
	s.metrics.RequestSeconds.WithLabelValues(s.providerName, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.APIErrors.WithLabelValues(s.providerName, operation).Inc()
	}
}

func classifyRouting(what string, err error) error {
	switch {
	case errors.Is(err, routing.ErrMissingAPIKey):
		return fmt.Errorf("%w: %s: %w", ErrConfiguration, what, err)
	case errors.Is(err, routing.ErrNoRoute):
		return fmt.Errorf("%w: %s: %w", ErrUnresolvableRoute, what, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrUpstream, what, err)
	}
}

// outcome labels a finished request for the requests counter.
func outcome(err error, returned int) string {
	switch {
	case err == nil && returned == 0:
		return "empty"
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrUnresolvableRoute):
		return "unresolvable_route"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "upstream"
	}
}

package dispatch

import (
	"log/slog"
	"os"
	"testing"

	"github.com/UnknownOlympus/hermes/internal/metrics"
	"github.com/UnknownOlympus/hermes/internal/models"
	"github.com/UnknownOlympus/hermes/internal/routing"
	"github.com/UnknownOlympus/hermes/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const riderID = "rider-1"

var (
	pickup  = models.GeoPoint{Latitude: 14.60, Longitude: 120.98}
	dropoff = models.GeoPoint{Latitude: 14.61, Longitude: 121.00}
)

type fixture struct {
	profiles *mocks.ProfileStore
	locator  *mocks.VehicleLocator
	provider *mocks.Provider
	metrics  *metrics.Metrics
	service  *Service
}

func newFixture(t *testing.T, check CoordinateCheck) *fixture {
	t.Helper()
	f := &fixture{
		profiles: mocks.NewProfileStore(t),
		locator:  mocks.NewVehicleLocator(t),
		provider: mocks.NewProvider(t),
		metrics:  metrics.NewMetrics(prometheus.NewRegistry()),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	f.service = NewService(logger, f.profiles, f.locator, f.provider, "geoapify", f.metrics, check)
	return f
}

func ptr(v float64) *float64 { return &v }

func validInput() Input {
	return Input{
		PickupLat:  ptr(pickup.Latitude),
		PickupLng:  ptr(pickup.Longitude),
		DropoffLat: ptr(dropoff.Latitude),
		DropoffLng: ptr(dropoff.Longitude),
	}
}

func candidates(n int) []models.Candidate {
	out := make([]models.Candidate, n)
	for i := range out {
		out[i] = models.Candidate{
			VehicleID:           string(rune('a' + i)),
			ExternalReferenceID: "UTS-" + string(rune('A'+i)),
			Location:            models.GeoPoint{Latitude: 14.60 + float64(i)*0.001, Longitude: 120.98},
		}
	}
	return out
}

func sources(cands []models.Candidate) []models.GeoPoint {
	out := make([]models.GeoPoint, len(cands))
	for i, c := range cands {
		out[i] = c.Location
	}
	return out
}

func estimate(eta, dist float64) models.TravelEstimate {
	return models.TravelEstimate{ETASeconds: ptr(eta), DistanceMeters: ptr(dist)}
}

func TestFindNearest_Fares(t *testing.T) {
	tests := []struct {
		name       string
		tripMeters float64
		discount   bool
		want       float64
	}{
		{"scenario A - regular fare", 2500, false, 57.50},
		{"scenario B - discounted fare", 2500, true, 46.00},
		{"scenario C - short trip pays base fare", 800, false, 35.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, CoordinateCheckTruthy)
			ctx := t.Context()
			cands := candidates(2)

			f.profiles.On("IsDiscountEligible", ctx, riderID).Return(tt.discount, nil).Once()
			f.locator.On("NearbyVehicles", ctx, pickup).Return(cands, nil).Once()
			f.provider.On("PickupMatrix", ctx, sources(cands), pickup).
				Return([]models.TravelEstimate{estimate(120, 900), estimate(60, 400)}, nil).Once()
			f.provider.On("RouteDistance", ctx, pickup, dropoff).Return(tt.tripMeters, nil).Once()

			got, err := f.service.FindNearest(ctx, riderID, validInput())

			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "b", got[0].VehicleID)
			assert.Equal(t, "a", got[1].VehicleID)
			for _, rc := range got {
				assert.InDelta(t, tt.want, rc.Fare.Rounded(), 1e-9)
				assert.InDelta(t, tt.tripMeters, rc.TripDistanceMeters, 1e-9)
			}
			assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("success")), 1e-9)
		})
	}
}

func TestFindNearest_NoCandidates(t *testing.T) {
	f := newFixture(t, CoordinateCheckTruthy)
	ctx := t.Context()

	f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, nil).Once()
	f.locator.On("NearbyVehicles", ctx, pickup).Return([]models.Candidate{}, nil).Once()

	got, err := f.service.FindNearest(ctx, riderID, validInput())

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
	f.provider.AssertNotCalled(t, "PickupMatrix", mock.Anything, mock.Anything, mock.Anything)
	f.provider.AssertNotCalled(t, "RouteDistance", mock.Anything, mock.Anything, mock.Anything)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("empty")), 1e-9)
}

func TestFindNearest_NoRoute(t *testing.T) {
	f := newFixture(t, CoordinateCheckTruthy)
	ctx := t.Context()
	cands := candidates(1)

	f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, nil).Once()
	f.locator.On("NearbyVehicles", ctx, pickup).Return(cands, nil).Once()
	f.provider.On("PickupMatrix", ctx, sources(cands), pickup).
		Return([]models.TravelEstimate{estimate(60, 400)}, nil).Once()
	f.provider.On("RouteDistance", ctx, pickup, dropoff).Return(0.0, routing.ErrNoRoute).Once()

	got, err := f.service.FindNearest(ctx, riderID, validInput())

	require.Nil(t, got)
	require.ErrorIs(t, err, ErrUnresolvableRoute)
	require.ErrorIs(t, err, routing.ErrNoRoute)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.APIErrors.WithLabelValues("geoapify", operationRoute)), 1e-9)
}

func TestFindNearest_NullProximityRanksLast(t *testing.T) {
	f := newFixture(t, CoordinateCheckTruthy)
	ctx := t.Context()
	cands := candidates(5)

	f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, nil).Once()
	f.locator.On("NearbyVehicles", ctx, pickup).Return(cands, nil).Once()
	f.provider.On("PickupMatrix", ctx, sources(cands), pickup).Return([]models.TravelEstimate{
		{},
		estimate(300, 2000),
		{},
		estimate(90, 700),
		estimate(200, 1500),
	}, nil).Once()
	f.provider.On("RouteDistance", ctx, pickup, dropoff).Return(2500.0, nil).Once()

	got, err := f.service.FindNearest(ctx, riderID, validInput())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"d", "e", "b"}, []string{got[0].VehicleID, got[1].VehicleID, got[2].VehicleID})
	for _, rc := range got {
		assert.NotNil(t, rc.ETASeconds)
	}
}

func TestFindNearest_Validation(t *testing.T) {
	t.Run("missing coordinate", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)
		in := validInput()
		in.DropoffLng = nil

		got, err := f.service.FindNearest(t.Context(), riderID, in)

		require.Nil(t, got)
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("invalid_request")), 1e-9)
	})

	t.Run("invalid input wins over missing identity", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)
		in := validInput()
		in.PickupLat = nil

		_, err := f.service.FindNearest(t.Context(), "", in)

		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("zero coordinate accepted in presence mode", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckPresence)
		ctx := t.Context()
		in := validInput()
		in.PickupLat = ptr(0)
		zeroPickup := models.GeoPoint{Latitude: 0, Longitude: pickup.Longitude}

		f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, nil).Once()
		f.locator.On("NearbyVehicles", ctx, zeroPickup).Return([]models.Candidate{}, nil).Once()

		got, err := f.service.FindNearest(ctx, riderID, in)

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFindNearest_Errors(t *testing.T) {
	t.Run("missing identity", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)

		got, err := f.service.FindNearest(t.Context(), "", validInput())

		require.Nil(t, got)
		require.ErrorIs(t, err, ErrUnauthorized)
		f.profiles.AssertNotCalled(t, "IsDiscountEligible", mock.Anything, mock.Anything)
		f.locator.AssertNotCalled(t, "NearbyVehicles", mock.Anything, mock.Anything)
	})

	t.Run("profile failure wins over locator failure", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)
		ctx := t.Context()
		locatorErr := assert.AnError

		f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, routing.ErrUnexpectedStatus).Once()
		f.locator.On("NearbyVehicles", ctx, pickup).Return(nil, locatorErr).Once()

		_, err := f.service.FindNearest(ctx, riderID, validInput())

		require.ErrorIs(t, err, ErrUpstream)
		require.ErrorContains(t, err, "rider profile")
		assert.NotErrorIs(t, err, locatorErr)
	})

	t.Run("locator failure", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)
		ctx := t.Context()

		f.profiles.On("IsDiscountEligible", ctx, riderID).Return(true, nil).Once()
		f.locator.On("NearbyVehicles", ctx, pickup).Return(nil, assert.AnError).Once()

		_, err := f.service.FindNearest(ctx, riderID, validInput())

		require.ErrorIs(t, err, ErrUpstream)
		require.ErrorIs(t, err, assert.AnError)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("upstream")), 1e-9)
	})

	t.Run("matrix failure stops before routing", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)
		ctx := t.Context()
		cands := candidates(2)

		f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, nil).Once()
		f.locator.On("NearbyVehicles", ctx, pickup).Return(cands, nil).Once()
		f.provider.On("PickupMatrix", ctx, sources(cands), pickup).Return(nil, routing.ErrUnexpectedStatus).Once()

		_, err := f.service.FindNearest(ctx, riderID, validInput())

		require.ErrorIs(t, err, ErrUpstream)
		f.provider.AssertNotCalled(t, "RouteDistance", mock.Anything, mock.Anything, mock.Anything)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.APIErrors.WithLabelValues("geoapify", operationMatrix)), 1e-9)
	})

	t.Run("matrix size mismatch", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)
		ctx := t.Context()
		cands := candidates(2)

		f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, nil).Once()
		f.locator.On("NearbyVehicles", ctx, pickup).Return(cands, nil).Once()
		f.provider.On("PickupMatrix", ctx, sources(cands), pickup).
			Return([]models.TravelEstimate{estimate(1, 1)}, nil).Once()

		_, err := f.service.FindNearest(ctx, riderID, validInput())

		require.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("missing routing key", func(t *testing.T) {
		f := newFixture(t, CoordinateCheckTruthy)
		ctx := t.Context()
		cands := candidates(1)

		f.profiles.On("IsDiscountEligible", ctx, riderID).Return(false, nil).Once()
		f.locator.On("NearbyVehicles", ctx, pickup).Return(cands, nil).Once()
		f.provider.On("PickupMatrix", ctx, sources(cands), pickup).Return(nil, routing.ErrMissingAPIKey).Once()

		_, err := f.service.FindNearest(ctx, riderID, validInput())

		require.ErrorIs(t, err, ErrConfiguration)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("configuration")), 1e-9)
	})
}

func TestOutcome(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "success", outcome(nil, 2))
	assert.Equal(t, "empty", outcome(nil, 0))
	assert.Equal(t, "unauthorized", outcome(ErrUnauthorized, 0))
	assert.Equal(t, "unresolvable_route", outcome(ErrUnresolvableRoute, 0))
	assert.Equal(t, "upstream", outcome(assert.AnError, 0))
}

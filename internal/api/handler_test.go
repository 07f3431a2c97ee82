package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UnknownOlympus/hermes/internal/api"
	"github.com/UnknownOlympus/hermes/internal/dispatch"
	"github.com/UnknownOlympus/hermes/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) FindNearest(ctx context.Context, riderID string, in dispatch.Input) ([]models.RankedCandidate, error) {
	args := m.Called(ctx, riderID, in)
	ranked, _ := args.Get(0).([]models.RankedCandidate)
	return ranked, args.Error(1)
}

type stubVerifier struct{}

func (stubVerifier) RiderID(token string) (string, error) {
	if token == "good" {
		return "rider-1", nil
	}
	return "", fmt.Errorf("bad token %q", token)
}

func newRouter(t *testing.T) (*gin.Engine, *mockFinder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	finder := &mockFinder{}
	t.Cleanup(func() { finder.AssertExpectations(t) })
	logger := slog.Default()
	return api.NewRouter(api.NewHandler(logger, finder), stubVerifier{}, logger), finder
}

func doRequest(r http.Handler, body string, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/drivers/nearest", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func f64(v float64) *float64 { return &v }

const validBody = `{"pickup_lat":14.60,"pickup_lng":120.98,"dropoff_lat":14.61,"dropoff_lng":121.00}`

var validInput = dispatch.Input{
	PickupLat: f64(14.60), PickupLng: f64(120.98),
	DropoffLat: f64(14.61), DropoffLng: f64(121.00),
}

func TestNearest_Success(t *testing.T) {
	r, finder := newRouter(t)
	finder.On("FindNearest", mock.Anything, "rider-1", validInput).Return([]models.RankedCandidate{
		{
			VehicleID: "v1", ExternalReferenceID: "UTS-1",
			ETASeconds: f64(60), DistanceMeters: f64(400),
			Fare: models.Fare{Amount: 38.5175}, TripDistanceMeters: 1234.5,
		},
		{
			VehicleID: "v2", ExternalReferenceID: "",
			Fare: models.Fare{Amount: 38.5175}, TripDistanceMeters: 1234.5,
		},
	}, nil).Once()

	w := doRequest(r, validBody, "Bearer good")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"drivers":[
		{"vehicle_id":"v1","uts_id":"UTS-1","eta_to_pickup_seconds":60,"distance_to_pickup_meters":400,
		 "trip_fare":38.52,"trip_distance_meters":1234.5},
		{"vehicle_id":"v2","uts_id":"","eta_to_pickup_seconds":null,"distance_to_pickup_meters":null,
		 "trip_fare":38.52,"trip_distance_meters":1234.5}
	]}`, w.Body.String())
}

func TestNearest_EmptyIsArray(t *testing.T) {
	r, finder := newRouter(t)
	finder.On("FindNearest", mock.Anything, "rider-1", validInput).Return([]models.RankedCandidate{}, nil).Once()

	w := doRequest(r, validBody, "Bearer good")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"drivers":[]}`, w.Body.String())
}

func TestNearest_InvalidTokenIsAnonymous(t *testing.T) {
	r, finder := newRouter(t)
	finder.On("FindNearest", mock.Anything, "", validInput).Return(nil, dispatch.ErrUnauthorized).Once()

	w := doRequest(r, validBody, "Bearer forged")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestNearest_MalformedBody(t *testing.T) {
	r, finder := newRouter(t)
	finder.On("FindNearest", mock.Anything, "rider-1", dispatch.Input{}).
		Return(nil, fmt.Errorf("%w: pickup_lat is required", dispatch.ErrInvalidRequest)).Twice()

	for _, body := range []string{`not json`, `{"pickup_lat":"14.6","pickup_lng":120.98,"dropoff_lat":14.61,"dropoff_lng":121}`} {
		w := doRequest(r, body, "Bearer good")

		require.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Missing coordinates"}`, w.Body.String())
	}
}

func TestNearest_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{dispatch.ErrInvalidRequest, http.StatusBadRequest, "Missing coordinates"},
		{dispatch.ErrUnresolvableRoute, http.StatusBadRequest, "Could not calculate trip distance"},
		{fmt.Errorf("%w: db down", dispatch.ErrUpstream), http.StatusBadGateway, "Failed to fetch nearest drivers"},
		{dispatch.ErrConfiguration, http.StatusInternalServerError, "Service misconfigured"},
		{assert.AnError, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			r, finder := newRouter(t)
			finder.On("FindNearest", mock.Anything, "rider-1", validInput).Return(nil, tt.err).Once()

			w := doRequest(r, validBody, "Bearer good")

			require.Equal(t, tt.status, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.msg, resp["error"])
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}

func TestNearest_CORSPreflight(t *testing.T) {
	r, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/v1/drivers/nearest", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization, x-client-info, apikey, content-type")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	allowed := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
	for _, h := range api.AllowedHeaders {
		assert.Contains(t, allowed, h)
	}
}

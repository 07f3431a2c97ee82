package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/hermes/internal/models"
	"golang.org/x/time/rate"
)

// GeoapifyBaseURL -- Geoapify API base URL.
const GeoapifyBaseURL = "https://api.geoapify.com/v1"

// GeoapifyProvider implements routing using the Geoapify Route Matrix and Routing APIs.
type GeoapifyProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Geoapify API
	apiKey  string        // API key with routing access
	profile string        // Travel mode sent with every request
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// geoapifyLocation is a matrix waypoint. Geoapify expects [lon, lat].
type geoapifyLocation struct {
	Location [2]float64 `json:"location"`
}

type geoapifyMatrixRequest struct {
	Mode    string             `json:"mode"`
	Sources []geoapifyLocation `json:"sources"`
	Targets []geoapifyLocation `json:"targets"`
}

// geoapifyMatrixCell is one entry of sources_to_targets. Fields the provider omits stay nil.
type geoapifyMatrixCell struct {
	Distance *float64 `json:"distance"`
	Time     *float64 `json:"time"`
}

type geoapifyMatrixResponse struct {
	SourcesToTargets [][]*geoapifyMatrixCell `json:"sources_to_targets"`
}

// geoapifyRoutingResponse is the GeoJSON feature collection returned by the Routing API.
type geoapifyRoutingResponse struct {
	Features []struct {
		Properties struct {
			Distance *float64 `json:"distance"` // meters
		} `json:"properties"`
	} `json:"features"`
}

// NewGeoapifyProvider creates a new Geoapify routing provider.
func NewGeoapifyProvider(apiKey, profile string, rateLimit int, log *slog.Logger) *GeoapifyProvider {
	const timeout = 10

	return &GeoapifyProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: GeoapifyBaseURL,
		apiKey:  apiKey,
		profile: profile,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewGeoapifyProviderWithClient allows injecting custom HTTP client.
func NewGeoapifyProviderWithClient(
	client HTTPClient,
	apiKey string,
	profile string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *GeoapifyProvider {
	return &GeoapifyProvider{
		client:  client,
		baseURL: GeoapifyBaseURL,
		apiKey:  apiKey,
		profile: profile,
		log:     log,
		limiter: limiter,
	}
}

// PickupMatrix requests travel time and distance from every source to the target
// in a single Route Matrix call.
func (gp *GeoapifyProvider) PickupMatrix(
	ctx context.Context,
	sources []models.GeoPoint,
	target models.GeoPoint,
) ([]models.TravelEstimate, error) {
	if gp.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := gp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	gp.log.DebugContext(ctx, "Requesting route matrix from Geoapify", "sources", len(sources), "mode", gp.profile)

	payload := geoapifyMatrixRequest{
		Mode:    gp.profile,
		Sources: make([]geoapifyLocation, 0, len(sources)),
		Targets: []geoapifyLocation{toGeoapifyLocation(target)},
	}
	for _, src := range sources {
		payload.Sources = append(payload.Sources, toGeoapifyLocation(src))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode route matrix request: %w", err)
	}

	reqURL, err := gp.endpoint("routematrix", nil)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	respBody, err := gp.do(ctx, req, "Geoapify Matrix Error")
	if err != nil {
		return nil, err
	}

	var result geoapifyMatrixResponse
	if err = json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode route matrix response: %w", err)
	}

	estimates := make([]models.TravelEstimate, len(sources))
	for idx := range sources {
		if idx >= len(result.SourcesToTargets) || len(result.SourcesToTargets[idx]) == 0 {
			continue
		}
		cell := result.SourcesToTargets[idx][0]
		if cell == nil {
			continue
		}
		estimates[idx] = models.TravelEstimate{ETASeconds: cell.Time, DistanceMeters: cell.Distance}
	}

	return estimates, nil
}

// RouteDistance requests a route through both points and returns the distance of the
// first returned feature.
func (gp *GeoapifyProvider) RouteDistance(ctx context.Context, from, to models.GeoPoint) (float64, error) {
	if gp.apiKey == "" {
		return 0, ErrMissingAPIKey
	}

	if err := gp.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit exceeded: %w", err)
	}

	gp.log.DebugContext(ctx, "Requesting trip route from Geoapify", "mode", gp.profile)

	query := url.Values{}
	query.Set("waypoints", waypoint(from)+"|"+waypoint(to))
	query.Set("mode", gp.profile)

	reqURL, err := gp.endpoint("routing", query)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	respBody, err := gp.do(ctx, req, "Geoapify Routing Error")
	if err != nil {
		return 0, err
	}

	var result geoapifyRoutingResponse
	if err = json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("failed to decode routing response: %w", err)
	}

	if len(result.Features) == 0 || result.Features[0].Properties.Distance == nil {
		return 0, ErrNoRoute
	}

	return *result.Features[0].Properties.Distance, nil
}

// endpoint builds the URL of an API path with the key attached.
func (gp *GeoapifyProvider) endpoint(path string, query url.Values) (string, error) {
	reqURL, err := url.Parse(gp.baseURL + "/" + path)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("apiKey", gp.apiKey)
	reqURL.RawQuery = query.Encode()

	return reqURL.String(), nil
}

// do executes the request and returns the body of a successful response.
// Failed responses are logged with their body and mapped to package errors.
func (gp *GeoapifyProvider) do(ctx context.Context, req *http.Request, failureMsg string) ([]byte, error) {
	resp, err := gp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute routing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		gp.log.ErrorContext(ctx, failureMsg, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: geoapify API returned status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func toGeoapifyLocation(p models.GeoPoint) geoapifyLocation {
	return geoapifyLocation{Location: [2]float64{p.Longitude, p.Latitude}}
}

// waypoint formats a point as "lat,lon" for the Routing API.
func waypoint(p models.GeoPoint) string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

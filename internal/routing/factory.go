package routing

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of routing provider.
type ProviderType string

const (
	// ProviderTypeGeoapify represents the Geoapify routing provider.
	ProviderTypeGeoapify ProviderType = "geoapify"
	// ProviderTypeGoogle represents the Google Maps routing provider.
	ProviderTypeGoogle ProviderType = "google"
)

// DefaultProfile is the vehicle profile used when none is configured.
const DefaultProfile = "motorcycle"

// ProviderConfig holds configuration for creating a routing provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key for the provider
	Profile   string       // Vehicle profile (used by Geoapify provider)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a routing provider based on the provided configuration.
//
// Supported provider types:
// - "geoapify": Geoapify Route Matrix and Routing APIs (key checked per call)
// - "google": Google Maps Distance Matrix and Directions APIs (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeGeoapify:
		return newGeoapifyProvider(config), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGeoapifyProvider creates a Geoapify routing provider. A missing key is reported
// by each call so requests that never reach routing keep working.
func newGeoapifyProvider(config ProviderConfig) Provider {
	if config.APIKey == "" {
		config.Logger.Warn("Geoapify API key not set, routing requests will fail")
	}

	if config.Profile == "" {
		config.Profile = DefaultProfile
	}

	if config.RateLimit <= 0 {
		config.RateLimit = 5
		config.Logger.Warn("Rate limit for Geoapify API not set, set a default value", "value", config.RateLimit)
	}

	return NewGeoapifyProvider(config.APIKey, config.Profile, config.RateLimit, config.Logger)
}

// newGoogleProvider creates a Google Maps routing provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

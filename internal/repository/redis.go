package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/hermes/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// VehicleGeoKey is the sorted set holding vehicle positions.
	VehicleGeoKey = "vehicles:geo"
	// vehicleKeyPrefix prefixes the per-vehicle hash holding its attributes.
	vehicleKeyPrefix = "vehicle:"
	// utsField is the hash field with the external reference id.
	utsField = "uts_id"
)

// RedisLocator finds nearby vehicles in a Redis GEO set.
type RedisLocator struct {
	client   *redis.Client
	radiusKm float64
	limit    int
	log      *slog.Logger
}

// NewRedisLocator creates a locator searching radiusKm around a point, returning at most limit vehicles.
func NewRedisLocator(client *redis.Client, radiusKm float64, limit int, log *slog.Logger) *RedisLocator {
	return &RedisLocator{client: client, radiusKm: radiusKm, limit: limit, log: log}
}

// NearbyVehicles runs GEOSEARCH nearest-first and resolves each vehicle's external reference id.
func (rl *RedisLocator) NearbyVehicles(ctx context.Context, point models.GeoPoint) ([]models.Candidate, error) {
	locations, err := rl.client.GeoSearchLocation(ctx, VehicleGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  point.Longitude,
			Latitude:   point.Latitude,
			Radius:     rl.radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      rl.limit,
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby vehicles: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(locations))
	if len(locations) == 0 {
		return candidates, nil
	}

	pipe := rl.client.Pipeline()
	refs := make([]*redis.StringCmd, len(locations))
	for i, loc := range locations {
		refs[i] = pipe.HGet(ctx, vehicleKeyPrefix+loc.Name, utsField)
	}
	// redis.Nil only means a vehicle has no reference id stored.
	if _, err = pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read vehicle attributes: %w", err)
	}

	for i, loc := range locations {
		ref, errRef := refs[i].Result()
		if errRef != nil && !errors.Is(errRef, redis.Nil) {
			return nil, fmt.Errorf("failed to read vehicle %s reference: %w", loc.Name, errRef)
		}
		candidates = append(candidates, models.Candidate{
			VehicleID:           loc.Name,
			ExternalReferenceID: ref,
			Location:            models.GeoPoint{Latitude: loc.Latitude, Longitude: loc.Longitude},
		})
	}

	rl.log.DebugContext(ctx, "Nearby vehicles fetched from Redis", "count", len(candidates))

	return candidates, nil
}

// SetVehicle stores a vehicle's position and reference id.
func (rl *RedisLocator) SetVehicle(ctx context.Context, cand models.Candidate) error {
	pipe := rl.client.TxPipeline()
	pipe.GeoAdd(ctx, VehicleGeoKey, &redis.GeoLocation{
		Name:      cand.VehicleID,
		Longitude: cand.Location.Longitude,
		Latitude:  cand.Location.Latitude,
	})
	pipe.HSet(ctx, vehicleKeyPrefix+cand.VehicleID, utsField, cand.ExternalReferenceID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store vehicle %s: %w", cand.VehicleID, err)
	}

	return nil
}

package config

import (
	"fmt"

	"github.com/UnknownOlympus/hermes/internal/dispatch"
	"github.com/UnknownOlympus/hermes/internal/routing"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// LocatorType selects the geospatial index used to find candidate vehicles.
type LocatorType string

const (
	LocatorPostgres LocatorType = "postgres"
	LocatorRedis    LocatorType = "redis"
)

// Config holds the configuration settings for the dispatch service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port of the public API server.
// - HealthPort: The port of the monitoring server (healthz and metrics).
// - Routing: Routing provider selection and credentials.
// - Locator: Which geospatial index finds candidate vehicles.
// - Redis: Connection settings used by the redis locator.
// - JWTSecret: Shared secret for verifying rider tokens.
// - CoordinateCheck: How strictly request coordinates are validated.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env             string                   // Env is the current environment: local, development, production.
	HTTPPort        int                      // HTTPPort is the public API server port.
	HealthPort      int                      // HealthPort is the monitoring server port.
	Routing         RoutingConfig            // Routing holds the provider settings.
	Locator         LocatorConfig            // Locator selects the geospatial index.
	Redis           RedisConfig              // Redis is used when Locator.Type is redis.
	JWTSecret       string                   // JWTSecret verifies rider tokens.
	CoordinateCheck dispatch.CoordinateCheck // CoordinateCheck is truthy or presence.
	Database        PostgresConfig           // Database holds the postgres database configuration
}

// RoutingConfig configures the travel time and distance provider.
type RoutingConfig struct {
	Provider  routing.ProviderType // Provider is geoapify or google.
	APIKey    string               // APIKey may be empty; calls then fail with a configuration error.
	Profile   string               // Profile is the vehicle profile sent to the provider.
	RateLimit int                  // RateLimit is the number of requests per second.
}

type LocatorConfig struct {
	Type     LocatorType
	RadiusKm float64 // redis only; the postgres function owns its radius
	Limit    int     // redis only
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

var envKeys = map[string]string{
	"env":                    "HERMES_ENV",
	"http.port":              "HERMES_HTTP_PORT",
	"health.port":            "HERMES_HEALTH_PORT",
	"routing.provider":       "HERMES_ROUTING_PROVIDER",
	"routing.api_key":        "HERMES_ROUTING_API_KEY",
	"routing.profile":        "HERMES_ROUTING_PROFILE",
	"routing.rate_limit":     "HERMES_ROUTING_RATE_LIMIT",
	"locator.type":           "HERMES_LOCATOR_TYPE",
	"locator.radius_km":      "HERMES_LOCATOR_RADIUS_KM",
	"locator.limit":          "HERMES_LOCATOR_LIMIT",
	"redis.addr":             "HERMES_REDIS_ADDR",
	"redis.password":         "HERMES_REDIS_PASSWORD",
	"redis.db":               "HERMES_REDIS_DB",
	"auth.jwt_secret":        "HERMES_JWT_SECRET",
	"validation.coordinates": "HERMES_COORDINATE_CHECK",
	"database.host":          "DB_HOST",
	"database.port":          "DB_PORT",
	"database.user":          "DB_USERNAME",
	"database.password":      "DB_PASSWORD",
	"database.name":          "DB_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("http.port", 8080)
	v.SetDefault("health.port", 8081)
	v.SetDefault("routing.provider", string(routing.ProviderTypeGeoapify))
	v.SetDefault("routing.profile", routing.DefaultProfile)
	v.SetDefault("routing.rate_limit", 10)
	v.SetDefault("locator.type", string(LocatorPostgres))
	v.SetDefault("locator.radius_km", 2)
	v.SetDefault("locator.limit", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("validation.coordinates", string(dispatch.CoordinateCheckTruthy))
	v.SetDefault("database.port", "5432")
}

// MustLoad reads an optional .env file, an optional YAML file named by
// HERMES_CONFIG_FILE and the environment, in increasing priority.
// It panics when a value is malformed or the JWT secret is missing.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}

	if err := v.BindEnv("config_file", "HERMES_CONFIG_FILE"); err == nil {
		if path := v.GetString("config_file"); path != "" {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err = v.ReadInConfig(); err != nil {
				panic(fmt.Sprintf("failed to read config file %s: %v", path, err))
			}
		}
	}

	httpPort, err := cast.ToIntE(v.Get("http.port"))
	if err != nil {
		panic("failed to parse port for API server from configuration")
	}

	healthPort, err := cast.ToIntE(v.Get("health.port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := cast.ToIntE(v.Get("routing.rate_limit"))
	if err != nil || rateLimit <= 0 {
		panic("failed to parse routing rate limit from configuration, must be a positive integer")
	}

	radius, err := cast.ToFloat64E(v.Get("locator.radius_km"))
	if err != nil || radius <= 0 {
		panic("failed to parse locator radius from configuration, must be a positive number")
	}

	limit, err := cast.ToIntE(v.Get("locator.limit"))
	if err != nil || limit <= 0 {
		panic("failed to parse locator limit from configuration, must be a positive integer")
	}

	redisDB, err := cast.ToIntE(v.Get("redis.db"))
	if err != nil {
		panic("failed to parse redis database from configuration, must be an integer types")
	}

	locatorType := LocatorType(v.GetString("locator.type"))
	if locatorType != LocatorPostgres && locatorType != LocatorRedis {
		panic(fmt.Sprintf("unsupported locator type: %s", locatorType))
	}

	check, err := dispatch.ParseCoordinateCheck(v.GetString("validation.coordinates"))
	if err != nil {
		panic(fmt.Sprintf("failed to parse coordinate check from configuration: %v", err))
	}

	secret := v.GetString("auth.jwt_secret")
	if secret == "" {
		panic("HERMES_JWT_SECRET is required")
	}

	return &Config{
		Env:        v.GetString("env"),
		HTTPPort:   httpPort,
		HealthPort: healthPort,
		Routing: RoutingConfig{
			Provider:  routing.ProviderType(v.GetString("routing.provider")),
			APIKey:    v.GetString("routing.api_key"),
			Profile:   v.GetString("routing.profile"),
			RateLimit: rateLimit,
		},
		Locator: LocatorConfig{
			Type:     locatorType,
			RadiusKm: radius,
			Limit:    limit,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       redisDB,
		},
		JWTSecret:       secret,
		CoordinateCheck: check,
		Database: PostgresConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
		},
	}
}

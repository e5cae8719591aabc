package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings
type Config struct {
	Environment   string
	ServerAddress string
	LogLevel      string
	StaticDir     string

	DatasetPath    string
	DatabaseURL    string
	MigrationsPath string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesKey       string
	SpacesAccessKey string
	SpacesSecretKey string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL  string
	MQTTClientID   string
	MQTTStatsTopic string

	AdhanDuration     time.Duration
	InactiveCap       int
	StatsTTL          time.Duration
	ReferenceLatitude float64
	StatsWorkers      int
}

// Load reads configuration from environment variables, after loading a
// .env file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("APP_ENV", "production"),
		ServerAddress:  getEnv("SERVER_ADDRESS", ":5000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StaticDir:      getEnv("STATIC_DIR", "./templates"),
		DatasetPath:    getEnv("DATASET_PATH", "./mosques_list.csv"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesKey:       getEnv("SPACES_KEY", "mosques_list.csv"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:   getEnv("MQTT_CLIENT_ID", "minaret-server"),
		MQTTStatsTopic: getEnv("MQTT_STATS_TOPIC", "minaret/stats"),
	}

	minutes, err := getInt("ADHAN_DURATION_MINUTES", 5)
	if err != nil {
		return nil, err
	}
	if minutes <= 0 {
		return nil, fmt.Errorf("ADHAN_DURATION_MINUTES must be positive, got %d", minutes)
	}
	cfg.AdhanDuration = time.Duration(minutes) * time.Minute

	if cfg.InactiveCap, err = getInt("INACTIVE_CAP", 3000); err != nil {
		return nil, err
	}
	if cfg.InactiveCap < 0 {
		return nil, fmt.Errorf("INACTIVE_CAP must not be negative, got %d", cfg.InactiveCap)
	}

	seconds, err := getInt("STATS_TTL_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("STATS_TTL_SECONDS must be positive, got %d", seconds)
	}
	cfg.StatsTTL = time.Duration(seconds) * time.Second

	if cfg.ReferenceLatitude, err = getFloat("REFERENCE_LATITUDE", 30); err != nil {
		return nil, err
	}
	if cfg.ReferenceLatitude < -90 || cfg.ReferenceLatitude > 90 {
		return nil, fmt.Errorf("REFERENCE_LATITUDE must be within [-90,90], got %v", cfg.ReferenceLatitude)
	}

	if cfg.StatsWorkers, err = getInt("STATS_WORKERS", runtime.GOMAXPROCS(0)); err != nil {
		return nil, err
	}

	if cfg.UseSpaces && cfg.SpacesBucket == "" {
		return nil, fmt.Errorf("SPACES_BUCKET is required when USE_SPACES=true")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config stores runtime configuration for both the API server and the
// pitchside tracker client.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	DBURL              string
	APIKey             string
	CORSAllowedOrigins []string
	RateLimitWindow    time.Duration
	RateLimitMax       int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level

	// Tracker client settings.
	APIBaseURL              string
	APITimeout              time.Duration
	StorePath               string
	AutosaveInterval        time.Duration
	SyncCron                string
	SyncWorkers             int
	SyncCircuitEnabled      bool
	SyncCircuitFailureCount int
	SyncCircuitOpenTimeout  time.Duration
	SyncCircuitHalfOpenReq  int

	// Observability.
	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	rateLimitWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RATE_LIMIT_WINDOW: %w", err)
	}
	if rateLimitWindow <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	rateLimitMax, err := getEnvAsInt("RATE_LIMIT_MAX", 120)
	if err != nil {
		return Config{}, fmt.Errorf("parse RATE_LIMIT_MAX: %w", err)
	}
	if rateLimitMax <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_MAX must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_TIMEOUT: %w", err)
	}

	apiTimeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse API_TIMEOUT: %w", err)
	}
	autosaveInterval, err := time.ParseDuration(getEnv("AUTOSAVE_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTOSAVE_INTERVAL: %w", err)
	}
	if autosaveInterval <= 0 {
		return Config{}, fmt.Errorf("AUTOSAVE_INTERVAL must be > 0")
	}

	syncWorkers, err := getEnvAsInt("SYNC_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKERS: %w", err)
	}
	if syncWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKERS must be >= 1")
	}

	syncCircuitEnabled, err := strconv.ParseBool(getEnv("SYNC_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_CIRCUIT_ENABLED: %w", err)
	}
	syncCircuitFailureCount, err := getEnvAsInt("SYNC_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	syncCircuitOpenTimeout, err := time.ParseDuration(getEnv("SYNC_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	syncCircuitHalfOpenReq, err := getEnvAsInt("SYNC_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	serviceName := getEnv("SERVICE_NAME", "rucktrack")
	pyroscopeAppName := strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName))
	if pyroscopeEnabled && pyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME is required when PYROSCOPE_ENABLED=true")
	}

	apiKey := strings.TrimSpace(getEnv("API_KEY", ""))
	if appEnv == EnvProd && apiKey == "" {
		return Config{}, fmt.Errorf("API_KEY is required when APP_ENV=prod")
	}

	return Config{
		AppEnv:             appEnv,
		ServiceName:        serviceName,
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		APIKey:             apiKey,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitWindow:    rateLimitWindow,
		RateLimitMax:       rateLimitMax,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		LogLevel:           logging.ParseLevel(getEnv("LOG_LEVEL", "info")),

		APIBaseURL:              strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", "http://localhost:8080")), "/"),
		APITimeout:              apiTimeout,
		StorePath:               getEnv("STORE_PATH", "data/rucktrack.db"),
		AutosaveInterval:        autosaveInterval,
		SyncCron:                getEnv("SYNC_CRON", "@every 5m"),
		SyncWorkers:             syncWorkers,
		SyncCircuitEnabled:      syncCircuitEnabled,
		SyncCircuitFailureCount: syncCircuitFailureCount,
		SyncCircuitOpenTimeout:  syncCircuitOpenTimeout,
		SyncCircuitHalfOpenReq:  syncCircuitHalfOpenReq,

		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:       pyroscopeAppName,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
	}, nil
}

func parseAppEnv(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case EnvDev:
		return EnvDev, nil
	case EnvProd:
		return EnvProd, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q (want %s or %s)", value, EnvDev, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getEnv(key, strconv.Itoa(fallback)))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return value, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

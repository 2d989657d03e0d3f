package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/playoff-stats/internal/platform/logging"
)

// Config stores runtime configuration for the ingestion commands.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
	LogLevel       logging.Level
	LogFormat      logging.Format `validate:"oneof=console json"`

	// Database settings are checked by ValidateDatabase, only by commands
	// that open a connection.
	DBURL                   string
	DBHost                  string
	DBPort                  int
	DBUser                  string
	DBPassword              string
	DBName                  string
	DBSSLMode               string
	DBDisablePreparedBinary bool

	ScraperBaseURL               string        `validate:"required,http_url"`
	ScraperLeague                string        `validate:"required,alphanum"`
	ScraperUserAgent             string        `validate:"required"`
	ScraperRequestInterval       time.Duration `validate:"gte=0"`
	ScraperTimeout               time.Duration `validate:"gt=0"`
	ScraperPageCacheTTL          time.Duration `validate:"gte=0"`
	ScraperCircuitEnabled        bool
	ScraperCircuitFailureCount   int           `validate:"gte=1"`
	ScraperCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	ScraperCircuitHalfOpenMaxReq int           `validate:"gte=1"`

	UptraceEnabled         bool
	UptraceDSN             string `validate:"required_if=UptraceEnabled true"`
	PyroscopeEnabled       bool
	PyroscopeServerAddress string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeBasicAuthUser string
	PyroscopeBasicAuthPass string
	PyroscopeUploadRate    time.Duration `validate:"gt=0"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbPort, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_PORT: %w", err)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	requestInterval, err := time.ParseDuration(getEnv("SCRAPER_REQUEST_INTERVAL", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_REQUEST_INTERVAL: %w", err)
	}
	scraperTimeout, err := time.ParseDuration(getEnv("SCRAPER_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_TIMEOUT: %w", err)
	}
	pageCacheTTL, err := time.ParseDuration(getEnv("SCRAPER_PAGE_CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_PAGE_CACHE_TTL: %w", err)
	}
	circuitEnabled, err := strconv.ParseBool(getEnv("SCRAPER_CIRCUIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("SCRAPER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("SCRAPER_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("SCRAPER_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "playoff-stats-ingest"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                     logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                    logging.Format(strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", defaultLogFormat(appEnv))))),
		DBURL:                        strings.TrimSpace(getEnv("DB_URL", "")),
		DBHost:                       strings.TrimSpace(getEnv("DB_HOST", "")),
		DBPort:                       dbPort,
		DBUser:                       strings.TrimSpace(getEnv("DB_USER", "")),
		DBPassword:                   getEnv("DB_PASSWORD", ""),
		DBName:                       strings.TrimSpace(getEnv("DB_NAME", "")),
		DBSSLMode:                    strings.TrimSpace(getEnv("DB_SSLMODE", "disable")),
		DBDisablePreparedBinary:      dbDisablePreparedBinary,
		ScraperBaseURL:               strings.TrimRight(strings.TrimSpace(getEnv("SCRAPER_BASE_URL", "https://www.basketball-reference.com")), "/"),
		ScraperLeague:                strings.ToUpper(strings.TrimSpace(getEnv("SCRAPER_LEAGUE", "NBA"))),
		ScraperUserAgent:             strings.TrimSpace(getEnv("SCRAPER_USER_AGENT", defaultUserAgent)),
		ScraperRequestInterval:       requestInterval,
		ScraperTimeout:               scraperTimeout,
		ScraperPageCacheTTL:          pageCacheTTL,
		ScraperCircuitEnabled:        circuitEnabled,
		ScraperCircuitFailureCount:   circuitFailureCount,
		ScraperCircuitOpenTimeout:    circuitOpenTimeout,
		ScraperCircuitHalfOpenMaxReq: circuitHalfOpenMaxReq,
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPass:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first invalid field using its env-facing name.
func Validate(cfg Config) error {
	return firstInvalid(validate.Struct(cfg))
}

type databaseSettings struct {
	DBURL     string
	DBHost    string `validate:"required_without=DBURL"`
	DBPort    int    `validate:"gte=1,lte=65535"`
	DBUser    string `validate:"required_without=DBURL"`
	DBName    string `validate:"required_without=DBURL"`
	DBSSLMode string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

// ValidateDatabase checks the connection settings. Either DB_URL or the
// host, user and name parts must be set.
func ValidateDatabase(cfg Config) error {
	return firstInvalid(validate.Struct(databaseSettings{
		DBURL:     cfg.DBURL,
		DBHost:    cfg.DBHost,
		DBPort:    cfg.DBPort,
		DBUser:    cfg.DBUser,
		DBName:    cfg.DBName,
		DBSSLMode: cfg.DBSSLMode,
	}))
}

func firstInvalid(err error) error {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}

	first := verrs[0]
	name := envNames[first.Field()]
	if name == "" {
		name = first.Field()
	}
	if first.Param() != "" {
		return fmt.Errorf("invalid %s: failed %s=%s", name, first.Tag(), first.Param())
	}
	return fmt.Errorf("invalid %s: failed %s", name, first.Tag())
}

var envNames = map[string]string{
	"AppEnv":                       "APP_ENV",
	"ServiceName":                  "APP_SERVICE_NAME",
	"LogFormat":                    "APP_LOG_FORMAT",
	"DBHost":                       "DB_HOST",
	"DBPort":                       "DB_PORT",
	"DBUser":                       "DB_USER",
	"DBName":                       "DB_NAME",
	"DBSSLMode":                    "DB_SSLMODE",
	"ScraperBaseURL":               "SCRAPER_BASE_URL",
	"ScraperLeague":                "SCRAPER_LEAGUE",
	"ScraperUserAgent":             "SCRAPER_USER_AGENT",
	"ScraperRequestInterval":       "SCRAPER_REQUEST_INTERVAL",
	"ScraperTimeout":               "SCRAPER_TIMEOUT",
	"ScraperPageCacheTTL":          "SCRAPER_PAGE_CACHE_TTL",
	"ScraperCircuitFailureCount":   "SCRAPER_CIRCUIT_FAILURE_COUNT",
	"ScraperCircuitOpenTimeout":    "SCRAPER_CIRCUIT_OPEN_TIMEOUT",
	"ScraperCircuitHalfOpenMaxReq": "SCRAPER_CIRCUIT_HALF_OPEN_MAX_REQ",
	"UptraceDSN":                   "UPTRACE_DSN",
	"PyroscopeServerAddress":       "PYROSCOPE_SERVER_ADDRESS",
	"PyroscopeUploadRate":          "PYROSCOPE_UPLOAD_RATE",
}

func defaultLogFormat(appEnv string) string {
	if appEnv == EnvDev {
		return string(logging.FormatConsole)
	}
	return string(logging.FormatJSON)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/federation-awards/internal/platform/logging"
)

const (
	TemplateSourceFS   = "fs"
	TemplateSourceHTTP = "http"
	TemplateSourceS3   = "s3"
)

// Config stores runtime configuration for the service and the CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	FederationAPIBaseURL            string
	FederationAPIToken              string
	FederationAPITimeout            time.Duration
	FederationAPIMaxRetries         int
	FederationAPIRateLimit          float64
	FederationAPIRateBurst          int
	FederationAPICircuitEnabled     bool
	FederationAPICircuitFailures    int
	FederationAPICircuitOpenTimeout time.Duration
	FederationAPICircuitHalfOpenMax int

	TemplateSource   string
	TemplateDir      string
	TemplateBaseURL  string
	TemplateCacheTTL time.Duration

	S3AccountID       string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3TemplatePrefix  string
	S3ArchivePrefix   string

	DiplomaLayoutFile     string
	DiplomaWorkers        int
	DiplomaArchiveEnabled bool

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

// LoadDotEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := parsePositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := parsePositiveDuration("APP_WRITE_TIMEOUT", "60s")
	if err != nil {
		return Config{}, err
	}

	apiBaseURL := strings.TrimSpace(getEnv("FEDERATION_API_BASE_URL", "http://localhost:8000/api"))
	if apiBaseURL == "" {
		return Config{}, fmt.Errorf("FEDERATION_API_BASE_URL cannot be empty")
	}
	apiTimeout, err := parsePositiveDuration("FEDERATION_API_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	apiMaxRetries, err := getEnvAsInt("FEDERATION_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEDERATION_API_MAX_RETRIES: %w", err)
	}
	if apiMaxRetries < 0 {
		return Config{}, fmt.Errorf("FEDERATION_API_MAX_RETRIES must be >= 0")
	}
	apiRateLimit, err := strconv.ParseFloat(getEnv("FEDERATION_API_RATE_LIMIT", "20"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEDERATION_API_RATE_LIMIT: %w", err)
	}
	if apiRateLimit < 0 {
		return Config{}, fmt.Errorf("FEDERATION_API_RATE_LIMIT must be >= 0")
	}
	apiRateBurst, err := getEnvAsInt("FEDERATION_API_RATE_BURST", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEDERATION_API_RATE_BURST: %w", err)
	}
	if apiRateBurst < 1 {
		return Config{}, fmt.Errorf("FEDERATION_API_RATE_BURST must be >= 1")
	}
	circuitEnabled, err := strconv.ParseBool(getEnv("FEDERATION_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEDERATION_API_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailures, err := getEnvAsInt("FEDERATION_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEDERATION_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailures < 1 {
		return Config{}, fmt.Errorf("FEDERATION_API_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	circuitOpenTimeout, err := parsePositiveDuration("FEDERATION_API_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	circuitHalfOpenMax, err := getEnvAsInt("FEDERATION_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEDERATION_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("FEDERATION_API_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	templateSource := strings.ToLower(strings.TrimSpace(getEnv("TEMPLATE_SOURCE", TemplateSourceFS)))
	templateDir := strings.TrimSpace(getEnv("TEMPLATE_DIR", "./templates"))
	templateBaseURL := strings.TrimSpace(getEnv("TEMPLATE_BASE_URL", ""))
	switch templateSource {
	case TemplateSourceFS:
		if templateDir == "" {
			return Config{}, fmt.Errorf("TEMPLATE_DIR is required when TEMPLATE_SOURCE=fs")
		}
	case TemplateSourceHTTP:
		if templateBaseURL == "" {
			return Config{}, fmt.Errorf("TEMPLATE_BASE_URL is required when TEMPLATE_SOURCE=http")
		}
	case TemplateSourceS3:
	default:
		return Config{}, fmt.Errorf("invalid TEMPLATE_SOURCE %q: valid values are %s, %s, %s", templateSource, TemplateSourceFS, TemplateSourceHTTP, TemplateSourceS3)
	}
	templateCacheTTL, err := parsePositiveDuration("TEMPLATE_CACHE_TTL", "10m")
	if err != nil {
		return Config{}, err
	}

	diplomaWorkers, err := getEnvAsInt("DIPLOMA_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse DIPLOMA_WORKERS: %w", err)
	}
	if diplomaWorkers < 1 {
		return Config{}, fmt.Errorf("DIPLOMA_WORKERS must be >= 1")
	}
	archiveEnabled, err := strconv.ParseBool(getEnv("DIPLOMA_ARCHIVE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DIPLOMA_ARCHIVE_ENABLED: %w", err)
	}

	s3AccountID := strings.TrimSpace(getEnv("S3_ACCOUNT_ID", ""))
	s3Endpoint := strings.TrimSpace(getEnv("S3_ENDPOINT", ""))
	s3Bucket := strings.TrimSpace(getEnv("S3_BUCKET", ""))
	if templateSource == TemplateSourceS3 || archiveEnabled {
		if s3Bucket == "" {
			return Config{}, fmt.Errorf("S3_BUCKET is required when TEMPLATE_SOURCE=s3 or DIPLOMA_ARCHIVE_ENABLED=true")
		}
		if s3AccountID == "" && s3Endpoint == "" {
			return Config{}, fmt.Errorf("S3_ACCOUNT_ID or S3_ENDPOINT is required when TEMPLATE_SOURCE=s3 or DIPLOMA_ARCHIVE_ENABLED=true")
		}
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "federation-awards"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		FederationAPIBaseURL:            apiBaseURL,
		FederationAPIToken:              strings.TrimSpace(getEnv("FEDERATION_API_TOKEN", "")),
		FederationAPITimeout:            apiTimeout,
		FederationAPIMaxRetries:         apiMaxRetries,
		FederationAPIRateLimit:          apiRateLimit,
		FederationAPIRateBurst:          apiRateBurst,
		FederationAPICircuitEnabled:     circuitEnabled,
		FederationAPICircuitFailures:    circuitFailures,
		FederationAPICircuitOpenTimeout: circuitOpenTimeout,
		FederationAPICircuitHalfOpenMax: circuitHalfOpenMax,

		TemplateSource:   templateSource,
		TemplateDir:      templateDir,
		TemplateBaseURL:  templateBaseURL,
		TemplateCacheTTL: templateCacheTTL,

		S3AccountID:       s3AccountID,
		S3Endpoint:        s3Endpoint,
		S3Region:          strings.TrimSpace(getEnv("S3_REGION", "auto")),
		S3AccessKeyID:     strings.TrimSpace(getEnv("S3_ACCESS_KEY_ID", "")),
		S3SecretAccessKey: strings.TrimSpace(getEnv("S3_SECRET_ACCESS_KEY", "")),
		S3Bucket:          s3Bucket,
		S3TemplatePrefix:  strings.Trim(strings.TrimSpace(getEnv("S3_TEMPLATE_PREFIX", "templates")), "/"),
		S3ArchivePrefix:   strings.Trim(strings.TrimSpace(getEnv("S3_ARCHIVE_PREFIX", "")), "/"),

		DiplomaLayoutFile:     strings.TrimSpace(getEnv("DIPLOMA_LAYOUT_FILE", "")),
		DiplomaWorkers:        diplomaWorkers,
		DiplomaArchiveEnabled: archiveEnabled,

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
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

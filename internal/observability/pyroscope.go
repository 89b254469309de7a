package observability

import (
	"strconv"
	"strings"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/federation-awards/internal/config"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
)

// InitPyroscope starts continuous profiling when enabled, with allocation and
// in-use heap profiles alongside CPU. The application name defaults to the service name.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	appName := strings.TrimSpace(cfg.PyroscopeAppName)
	if appName == "" {
		appName = cfg.ServiceName
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   appName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
			"workers": strconv.Itoa(cfg.DiplomaWorkers),
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", appName,
	)

	return profiler.Stop, nil
}

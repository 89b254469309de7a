package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/federation-awards/external/federationapi"
	"github.com/riskibarqy/federation-awards/internal/config"
	"github.com/riskibarqy/federation-awards/internal/infrastructure/chart"
	"github.com/riskibarqy/federation-awards/internal/infrastructure/diploma"
	"github.com/riskibarqy/federation-awards/internal/infrastructure/export"
	"github.com/riskibarqy/federation-awards/internal/infrastructure/storage"
	"github.com/riskibarqy/federation-awards/internal/interfaces/httpapi"
	"github.com/riskibarqy/federation-awards/internal/observability"
	"github.com/riskibarqy/federation-awards/internal/platform/id"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"github.com/riskibarqy/federation-awards/internal/platform/resilience"
	"github.com/riskibarqy/federation-awards/internal/usecase"
)

// Services is the wired application shared by the HTTP server and the CLI.
type Services struct {
	Gateway  *federationapi.Client
	Metrics  *observability.Metrics
	Results  *usecase.ResultsService
	Export   *usecase.ExportService
	Diplomas *usecase.DiplomaService
}

func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	metrics := observability.NewMetrics()

	gateway := federationapi.NewClient(federationapi.ClientConfig{
		BaseURL:    cfg.FederationAPIBaseURL,
		Token:      cfg.FederationAPIToken,
		Timeout:    cfg.FederationAPITimeout,
		MaxRetries: cfg.FederationAPIMaxRetries,
		RateLimit:  cfg.FederationAPIRateLimit,
		RateBurst:  cfg.FederationAPIRateBurst,
		Logger:     logger,
		Observer:   metrics,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FederationAPICircuitEnabled,
			FailureThreshold: cfg.FederationAPICircuitFailures,
			OpenTimeout:      cfg.FederationAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FederationAPICircuitHalfOpenMax,
			OnStateChange: func(name string, from, to resilience.CircuitState) {
				metrics.CircuitStateChanged(name, from, to)
				logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
			},
		},
	})

	resultsSvc := usecase.NewResultsService(
		federationapi.NewCompetitionRepository(gateway),
		federationapi.NewCategoryRepository(gateway),
		federationapi.NewTeamRepository(gateway),
		federationapi.NewAthleteRepository(gateway),
		federationapi.NewClubRepository(gateway),
		logger,
	)

	exportSvc := usecase.NewExportService(
		resultsSvc,
		map[usecase.ExportFormat]usecase.ResultsEncoder{
			usecase.ExportFormatCSV:  export.NewCSVEncoder(),
			usecase.ExportFormatXLSX: export.NewXLSXEncoder(),
		},
		chart.NewMedalRenderer(),
		metrics,
		logger,
	)

	templates, err := newTemplateStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	archive, err := newDiplomaArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}
	layouts, err := diploma.LoadLayouts(cfg.DiplomaLayoutFile)
	if err != nil {
		return nil, err
	}

	diplomaSvc := usecase.NewDiplomaService(
		resultsSvc,
		templates,
		diploma.NewGenerator(),
		archive,
		id.NewUUIDGenerator(),
		usecase.DiplomaServiceConfig{Workers: cfg.DiplomaWorkers, Layouts: layouts},
		metrics,
		logger,
	)

	return &Services{
		Gateway:  gateway,
		Metrics:  metrics,
		Results:  resultsSvc,
		Export:   exportSvc,
		Diplomas: diplomaSvc,
	}, nil
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	handler := httpapi.NewHandler(services.Results, services.Export, services.Diplomas, services.Gateway, logger)
	router := httpapi.NewRouter(handler, services.Metrics.Handler(), logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func newTemplateStore(ctx context.Context, cfg config.Config) (usecase.TemplateStore, error) {
	var next storage.Loader
	switch cfg.TemplateSource {
	case config.TemplateSourceHTTP:
		store, err := storage.NewHTTPStore(cfg.TemplateBaseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build http template store: %w", err)
		}
		next = store
	case config.TemplateSourceS3:
		store, err := storage.NewS3Store(ctx, s3Config(cfg, cfg.S3TemplatePrefix))
		if err != nil {
			return nil, fmt.Errorf("build s3 template store: %w", err)
		}
		next = store
	default:
		next = storage.NewFSStore(cfg.TemplateDir)
	}

	if cfg.TemplateCacheTTL <= 0 {
		return next, nil
	}
	return storage.NewCachedStore(next, cfg.TemplateCacheTTL), nil
}

func newDiplomaArchive(ctx context.Context, cfg config.Config) (usecase.DiplomaArchive, error) {
	if !cfg.DiplomaArchiveEnabled {
		return nil, nil
	}
	store, err := storage.NewS3Store(ctx, s3Config(cfg, cfg.S3ArchivePrefix))
	if err != nil {
		return nil, fmt.Errorf("build diploma archive: %w", err)
	}
	return store, nil
}

func s3Config(cfg config.Config, prefix string) storage.S3Config {
	return storage.S3Config{
		AccountID:       cfg.S3AccountID,
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Bucket:          cfg.S3Bucket,
		Prefix:          prefix,
	}
}

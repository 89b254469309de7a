package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/riskibarqy/federation-awards/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	metrics http.Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("http")

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		RequestTracing,
		RequestLogging(logger),
		CORS(corsAllowedOrigins),
		recoverPanic(logger),
	)

	r.Get("/healthz", handler.Healthz)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/v1/competitions", func(r chi.Router) {
		r.Get("/", handler.ListCompetitions)
		r.Route("/{competitionID}", func(r chi.Router) {
			r.Get("/results", handler.GetResults)
			r.Get("/export.csv", handler.ExportCSV)
			r.Get("/export.xlsx", handler.ExportXLSX)
			r.Get("/medals.png", handler.MedalChart)
			r.Get("/diplomas.zip", handler.DiplomaArchive)
			r.Get("/categories/{categoryID}/rows/{row}/diploma", handler.GetDiploma)
		})
	})

	return r
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"github.com/riskibarqy/federation-awards/internal/platform/resilience"
	"github.com/riskibarqy/federation-awards/internal/usecase"
)

// UpstreamProbe reports the federation API circuit state for /healthz.
type UpstreamProbe interface {
	BreakerState() resilience.CircuitState
}

type Handler struct {
	resultsService *usecase.ResultsService
	exportService  *usecase.ExportService
	diplomaService *usecase.DiplomaService
	upstream       UpstreamProbe
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	resultsService *usecase.ResultsService,
	exportService *usecase.ExportService,
	diplomaService *usecase.DiplomaService,
	upstream UpstreamProbe,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		resultsService: resultsService,
		exportService:  exportService,
		diplomaService: diplomaService,
		upstream:       upstream,
		logger:         logger.Named("http"),
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	body := map[string]string{"status": "ok"}
	if h.upstream != nil {
		body["federationApi"] = string(h.upstream.BreakerState())
	}
	writeSuccess(ctx, w, http.StatusOK, body)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type competitionParams struct {
	CompetitionID int64 `validate:"gt=0"`
}

type diplomaParams struct {
	CompetitionID int64  `validate:"gt=0"`
	CategoryID    int64  `validate:"gt=0"`
	Row           int    `validate:"gte=0"`
	Member        int64  `validate:"gte=0"`
	Mode          string `validate:"oneof=preview download"`
}

type diplomaArchiveParams struct {
	CompetitionID int64 `validate:"gt=0"`
	CategoryID    int64 `validate:"gte=0"`
	Participants  bool
}

func (h *Handler) competitionParams(r *http.Request) (competitionParams, error) {
	id, err := parseInt64Param("competitionID", chi.URLParam(r, "competitionID"))
	if err != nil {
		return competitionParams{}, err
	}
	params := competitionParams{CompetitionID: id}
	return params, h.validateRequest(r.Context(), params)
}

func (h *Handler) diplomaParams(r *http.Request) (diplomaParams, error) {
	competitionID, err := parseInt64Param("competitionID", chi.URLParam(r, "competitionID"))
	if err != nil {
		return diplomaParams{}, err
	}
	categoryID, err := parseInt64Param("categoryID", chi.URLParam(r, "categoryID"))
	if err != nil {
		return diplomaParams{}, err
	}
	row, err := parseInt64Param("row", chi.URLParam(r, "row"))
	if err != nil {
		return diplomaParams{}, err
	}

	query := r.URL.Query()
	member, err := parseInt64Param("member", query.Get("member"))
	if err != nil {
		return diplomaParams{}, err
	}
	mode := strings.ToLower(strings.TrimSpace(query.Get("mode")))
	if mode == "" {
		mode = "download"
	}

	params := diplomaParams{
		CompetitionID: competitionID,
		CategoryID:    categoryID,
		Row:           int(row),
		Member:        member,
		Mode:          mode,
	}
	return params, h.validateRequest(r.Context(), params)
}

func (h *Handler) diplomaArchiveParams(r *http.Request) (diplomaArchiveParams, error) {
	competitionID, err := parseInt64Param("competitionID", chi.URLParam(r, "competitionID"))
	if err != nil {
		return diplomaArchiveParams{}, err
	}
	query := r.URL.Query()
	categoryID, err := parseInt64Param("category", query.Get("category"))
	if err != nil {
		return diplomaArchiveParams{}, err
	}
	participants := false
	if raw := strings.TrimSpace(query.Get("participants")); raw != "" {
		participants, err = strconv.ParseBool(raw)
		if err != nil {
			return diplomaArchiveParams{}, fmt.Errorf("%w: participants must be a boolean", usecase.ErrInvalidInput)
		}
	}

	params := diplomaArchiveParams{
		CompetitionID: competitionID,
		CategoryID:    categoryID,
		Participants:  participants,
	}
	return params, h.validateRequest(r.Context(), params)
}

// parseInt64Param treats an empty value as zero; validation decides whether zero is allowed.
func parseInt64Param(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

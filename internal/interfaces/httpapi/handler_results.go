package httpapi

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/federation-awards/internal/usecase"
)

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	items, err := h.resultsService.ListCompetitions(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toCompetitionDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResults")
	defer span.End()

	params, err := h.competitionParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(attribute.Int64("competition.id", params.CompetitionID))

	res, err := h.resultsService.GetCompetitionResults(ctx, params.CompetitionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toCompetitionResultsDTO(res))
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.ExportFormatCSV)
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.ExportFormatXLSX)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, format usecase.ExportFormat) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Export")
	defer span.End()

	params, err := h.competitionParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(
		attribute.Int64("competition.id", params.CompetitionID),
		attribute.String("export.format", string(format)),
	)

	doc, err := h.exportService.Export(ctx, params.CompetitionID, format)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeFile(w, "attachment", doc.Filename, doc.ContentType, doc.Body)
}

func (h *Handler) MedalChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MedalChart")
	defer span.End()

	params, err := h.competitionParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	doc, err := h.exportService.MedalChart(ctx, params.CompetitionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeFile(w, "inline", doc.Filename, doc.ContentType, doc.Body)
}

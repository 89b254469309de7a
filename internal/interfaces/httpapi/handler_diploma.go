package httpapi

import (
	"archive/zip"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/federation-awards/internal/usecase"
)

const (
	diplomaFailuresHeader = "X-Diploma-Failures"
	diplomaBatchHeader    = "X-Diploma-Batch"
	failuresManifestName  = "failures.txt"
)

func (h *Handler) GetDiploma(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDiploma")
	defer span.End()

	params, err := h.diplomaParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(
		attribute.Int64("competition.id", params.CompetitionID),
		attribute.Int64("category.id", params.CategoryID),
		attribute.Int("row", params.Row),
	)

	doc, err := h.diplomaService.Single(ctx, params.CompetitionID, params.CategoryID, params.Row, params.Member)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	disposition := "attachment"
	if params.Mode == "preview" {
		disposition = "inline"
	}
	writeFile(w, disposition, doc.Filename, "application/pdf", doc.Bytes)
}

// DiplomaArchive streams a zip of every rendered diploma. Documents that failed
// are listed in failures.txt and in the X-Diploma-Failures header.
func (h *Handler) DiplomaArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiplomaArchive")
	defer span.End()

	params, err := h.diplomaArchiveParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	batch, err := h.diplomaService.GenerateBatch(ctx, params.CompetitionID, usecase.DiplomaFilter{
		CategoryID:          params.CategoryID,
		IncludeParticipants: params.Participants,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(batch.Results) == 0 {
		writeError(ctx, w, usecase.ErrNoData)
		return
	}

	succeeded := batch.Succeeded()
	failed := batch.Failed()
	span.SetAttributes(attribute.Int("diploma.succeeded", len(succeeded)), attribute.Int("diploma.failed", len(failed)))
	if len(succeeded) == 0 {
		writeError(ctx, w, failed[0].Err)
		return
	}

	if len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, f := range failed {
			names = append(names, url.QueryEscape(f.Request.Filename))
		}
		w.Header().Set(diplomaFailuresHeader, strings.Join(names, ","))
	}
	w.Header().Set(diplomaBatchHeader, batch.ID)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="diplomas.zip"`)
	w.WriteHeader(http.StatusOK)

	zw := zip.NewWriter(w)
	modified := time.Now()
	used := map[string]bool{failuresManifestName: true}
	for _, res := range succeeded {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     uniqueEntryName(used, res.Document.Filename),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			h.logger.WarnContext(ctx, "write diploma archive entry failed", "file", res.Document.Filename, "error", err)
			return
		}
		if _, err := fw.Write(res.Document.Bytes); err != nil {
			h.logger.WarnContext(ctx, "write diploma archive entry failed", "file", res.Document.Filename, "error", err)
			return
		}
	}
	if len(failed) > 0 {
		var manifest strings.Builder
		for _, f := range failed {
			manifest.WriteString(f.Request.Filename)
			manifest.WriteString(": ")
			manifest.WriteString(f.Err.Error())
			manifest.WriteString("\n")
		}
		if fw, err := zw.Create(failuresManifestName); err == nil {
			_, _ = fw.Write([]byte(manifest.String()))
		}
	}
	if err := zw.Close(); err != nil {
		h.logger.WarnContext(ctx, "close diploma archive failed", "batch_id", batch.ID, "error", err)
	}
}

// uniqueEntryName suffixes repeated archive names with _2, _3 and so on.
func uniqueEntryName(used map[string]bool, name string) string {
	candidate := name
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
	used[candidate] = true
	return candidate
}

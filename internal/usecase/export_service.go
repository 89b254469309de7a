package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/federation-awards/internal/domain/results"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
)

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ResultsEncoder renders resolved results into one downloadable document.
type ResultsEncoder interface {
	Encode(res results.CompetitionResults) ([]byte, error)
	ContentType() string
}

// ChartRenderer draws the club medal tally as an image.
type ChartRenderer interface {
	RenderMedals(res results.CompetitionResults) ([]byte, error)
	ContentType() string
}

// ExportDocument is a rendered file ready for delivery.
type ExportDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ExportService struct {
	results  *ResultsService
	encoders map[ExportFormat]ResultsEncoder
	chart    ChartRenderer
	recorder Recorder
	logger   *logging.Logger
}

func NewExportService(
	resultsService *ResultsService,
	encoders map[ExportFormat]ResultsEncoder,
	chart ChartRenderer,
	recorder Recorder,
	logger *logging.Logger,
) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{
		results:  resultsService,
		encoders: encoders,
		chart:    chart,
		recorder: recorderOrNop(recorder),
		logger:   logger.Named("export"),
	}
}

func (s *ExportService) Export(ctx context.Context, competitionID int64, format ExportFormat) (ExportDocument, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.Export")
	defer span.End()

	encoder, ok := s.encoders[format]
	if !ok {
		return ExportDocument{}, fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}

	res, err := s.results.GetCompetitionResults(ctx, competitionID)
	if err != nil {
		return ExportDocument{}, err
	}

	return s.Encode(ctx, res, format, encoder)
}

// Encode renders already resolved results; the CLI uses it to avoid a second fetch.
func (s *ExportService) Encode(ctx context.Context, res results.CompetitionResults, format ExportFormat, encoder ResultsEncoder) (ExportDocument, error) {
	if encoder == nil {
		var ok bool
		if encoder, ok = s.encoders[format]; !ok {
			return ExportDocument{}, fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
		}
	}

	body, err := encoder.Encode(res)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode export failed", "competition_id", res.Competition.ID, "format", string(format), "error", err)
		return ExportDocument{}, fmt.Errorf("encode %s export: %w", format, err)
	}
	s.recorder.ExportGenerated(string(format))

	return ExportDocument{
		Filename:    ExportFilename(res.Competition.Name, "details", string(format)),
		ContentType: encoder.ContentType(),
		Body:        body,
	}, nil
}

func (s *ExportService) MedalChart(ctx context.Context, competitionID int64) (ExportDocument, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.MedalChart")
	defer span.End()

	if s.chart == nil {
		return ExportDocument{}, fmt.Errorf("%w: chart renderer is not configured", ErrDependencyUnavailable)
	}

	res, err := s.results.GetCompetitionResults(ctx, competitionID)
	if err != nil {
		return ExportDocument{}, err
	}

	body, err := s.chart.RenderMedals(res)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("render medal chart: %w", err)
	}
	s.recorder.ExportGenerated("png")

	return ExportDocument{
		Filename:    ExportFilename(res.Competition.Name, "medals", "png"),
		ContentType: s.chart.ContentType(),
		Body:        body,
	}, nil
}

// ExportFilename builds "{Competition_Name}_{suffix}.{ext}".
func ExportFilename(competitionName, suffix, ext string) string {
	name := strings.ReplaceAll(strings.TrimSpace(competitionName), " ", "_")
	if name == "" {
		name = "competition"
	}
	return name + "_" + suffix + "." + ext
}

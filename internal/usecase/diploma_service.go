package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/diploma"
	"github.com/riskibarqy/federation-awards/internal/domain/results"
	"github.com/riskibarqy/federation-awards/internal/platform/id"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultDiplomaWorkers = 4

// TemplateStore loads template and font binaries by name.
type TemplateStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// DiplomaRenderer draws fields onto the first page of a template PDF.
type DiplomaRenderer interface {
	Render(template []byte, font diploma.Font, fields []diploma.Field) ([]byte, error)
}

// DiplomaArchive keeps a copy of generated documents.
type DiplomaArchive interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// DiplomaFilter selects which rows of a competition get diplomas.
type DiplomaFilter struct {
	CategoryID          int64
	IncludeParticipants bool
}

// DiplomaResult is the settled outcome of one document in a batch.
type DiplomaResult struct {
	Request  diploma.Request
	Document diploma.Document
	Err      error
}

type DiplomaBatch struct {
	ID      string
	Results []DiplomaResult
}

func (b DiplomaBatch) Succeeded() []DiplomaResult {
	out := make([]DiplomaResult, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Err == nil {
			out = append(out, r)
		}
	}
	return out
}

func (b DiplomaBatch) Failed() []DiplomaResult {
	out := make([]DiplomaResult, 0)
	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

type DiplomaServiceConfig struct {
	Workers int
	Layouts diploma.LayoutSet
}

type DiplomaService struct {
	results   *ResultsService
	templates TemplateStore
	renderer  DiplomaRenderer
	archive   DiplomaArchive
	ids       id.Generator
	layouts   diploma.LayoutSet
	workers   int
	recorder  Recorder
	logger    *logging.Logger
	now       func() time.Time
}

func NewDiplomaService(
	resultsService *ResultsService,
	templates TemplateStore,
	renderer DiplomaRenderer,
	archive DiplomaArchive,
	ids id.Generator,
	cfg DiplomaServiceConfig,
	recorder Recorder,
	logger *logging.Logger,
) *DiplomaService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultDiplomaWorkers
	}
	return &DiplomaService{
		results:   resultsService,
		templates: templates,
		renderer:  renderer,
		archive:   archive,
		ids:       ids,
		layouts:   cfg.Layouts,
		workers:   workers,
		recorder:  recorderOrNop(recorder),
		logger:    logger.Named("diploma"),
		now:       time.Now,
	}
}

// Single renders the diploma for one table row. Team rows need the member's
// athlete id unless the team has exactly one member.
func (s *DiplomaService) Single(ctx context.Context, competitionID, categoryID int64, row int, memberAthleteID int64) (diploma.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DiplomaService.Single")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("competition.id", competitionID),
		attribute.Int64("category.id", categoryID),
		attribute.Int("row", row),
	)

	res, err := s.results.GetCompetitionResults(ctx, competitionID)
	if err != nil {
		return diploma.Document{}, err
	}

	cat, ok := res.Category(categoryID)
	if !ok {
		return diploma.Document{}, fmt.Errorf("%w: category=%d competition=%d", ErrNotFound, categoryID, competitionID)
	}
	if row < 0 || row >= len(cat.Rows) {
		return diploma.Document{}, fmt.Errorf("%w: row=%d category=%d", ErrNotFound, row, categoryID)
	}

	reqs, err := s.rowRequests(res, cat, row)
	if err != nil {
		return diploma.Document{}, err
	}
	if len(reqs) == 0 {
		return diploma.Document{}, fmt.Errorf("%w: row %d has no awardees", ErrNoData, row)
	}

	req := reqs[0]
	if len(reqs) > 1 || memberAthleteID > 0 {
		found := false
		for _, candidate := range reqs {
			if candidate.AthleteID == memberAthleteID {
				req, found = candidate, true
				break
			}
		}
		if !found {
			if memberAthleteID <= 0 {
				return diploma.Document{}, fmt.Errorf("%w: member athlete id is required for team rows", ErrInvalidInput)
			}
			return diploma.Document{}, fmt.Errorf("%w: athlete %d is not a member of row %d", ErrNotFound, memberAthleteID, row)
		}
	}

	doc, err := s.Render(ctx, req)
	if err != nil {
		return diploma.Document{}, err
	}
	return doc, nil
}

// BuildRequests lists the diplomas for the filter in category and row order.
func (s *DiplomaService) BuildRequests(res results.CompetitionResults, filter DiplomaFilter) ([]diploma.Request, error) {
	categories := res.Categories
	if filter.CategoryID > 0 {
		cat, ok := res.Category(filter.CategoryID)
		if !ok {
			return nil, fmt.Errorf("%w: category=%d competition=%d", ErrNotFound, filter.CategoryID, res.Competition.ID)
		}
		categories = []results.CategoryResult{cat}
	}

	out := make([]diploma.Request, 0)
	for _, cat := range categories {
		for i, row := range cat.Rows {
			if !filter.IncludeParticipants && !row.Placement.IsPodium() {
				continue
			}
			reqs, err := s.rowRequests(res, cat, i)
			if err != nil {
				return nil, err
			}
			out = append(out, reqs...)
		}
	}
	return out, nil
}

func (s *DiplomaService) rowRequests(res results.CompetitionResults, cat results.CategoryResult, rowIndex int) ([]diploma.Request, error) {
	row := cat.Rows[rowIndex]
	layout, err := s.layouts.ForTier(row.Placement.Tier())
	if err != nil {
		return nil, err
	}

	categoryName := strings.TrimSpace(cat.Category.Name)
	groupGender := cat.Category.GroupGenderLine()

	if row.Kind != award.KindTeam {
		return []diploma.Request{{
			CategoryID:  cat.Category.ID,
			RowIndex:    rowIndex,
			AthleteID:   row.EntrantID,
			Placement:   row.Placement,
			AwardeeName: row.AwardeeName,
			Filename:    individualFilename(categoryName, row.AwardeeName),
			Fields: layout.Place(map[diploma.Slot]string{
				diploma.SlotAwardee:     row.AwardeeName,
				diploma.SlotCategory:    categoryName,
				diploma.SlotGroupGender: groupGender,
				diploma.SlotClub:        row.ClubName,
			}),
		}}, nil
	}

	year := res.Competition.Year(s.now())
	out := make([]diploma.Request, 0, len(row.Members))
	for _, m := range row.Members {
		name := m.FullName()
		out = append(out, diploma.Request{
			CategoryID:  cat.Category.ID,
			RowIndex:    rowIndex,
			AthleteID:   m.AthleteID,
			Placement:   row.Placement,
			AwardeeName: name,
			Filename:    teamMemberFilename(categoryName, name, m.ClubName, row.Placement, year),
			Fields: layout.Place(map[diploma.Slot]string{
				diploma.SlotAwardee:     name,
				diploma.SlotCategory:    categoryName,
				diploma.SlotGroupGender: groupGender,
				diploma.SlotClub:        m.ClubName,
			}),
		})
	}
	return out, nil
}

// Render loads the tier template and font and draws the request's fields.
func (s *DiplomaService) Render(ctx context.Context, req diploma.Request) (diploma.Document, error) {
	doc, err := s.render(ctx, req)
	if err != nil {
		s.recorder.DiplomaGenerated("failed")
		s.logger.WarnContext(ctx, "diploma generation failed",
			"category_id", req.CategoryID,
			"athlete_id", req.AthleteID,
			"filename", req.Filename,
			"error", err,
		)
		return diploma.Document{}, err
	}
	s.recorder.DiplomaGenerated("ok")
	return doc, nil
}

func (s *DiplomaService) render(ctx context.Context, req diploma.Request) (diploma.Document, error) {
	layout, err := s.layouts.ForTier(req.Placement.Tier())
	if err != nil {
		return diploma.Document{}, err
	}

	tpl, err := s.templates.Load(ctx, layout.Template)
	if err != nil {
		return diploma.Document{}, fmt.Errorf("%w: %s: %w", diploma.ErrTemplateUnavailable, layout.Template, err)
	}

	font := layout.FontValue()
	if !font.IsBuiltin() {
		data, err := s.templates.Load(ctx, font.File)
		if err != nil {
			return diploma.Document{}, fmt.Errorf("%w: %s: %w", diploma.ErrFontUnavailable, font.File, err)
		}
		font.Data = data
	}

	body, err := s.renderer.Render(tpl, font, req.Fields)
	if err != nil {
		return diploma.Document{}, fmt.Errorf("render %s: %w", req.Filename, err)
	}
	return diploma.Document{Filename: req.Filename, Bytes: body}, nil
}

// GenerateBatch renders every requested diploma on a bounded worker pool and
// waits for all of them. One failed document never stops the others.
func (s *DiplomaService) GenerateBatch(ctx context.Context, competitionID int64, filter DiplomaFilter) (DiplomaBatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DiplomaService.GenerateBatch")
	defer span.End()

	res, err := s.results.GetCompetitionResults(ctx, competitionID)
	if err != nil {
		return DiplomaBatch{}, err
	}
	reqs, err := s.BuildRequests(res, filter)
	if err != nil {
		return DiplomaBatch{}, err
	}

	batchID, err := s.ids.NewID()
	if err != nil {
		return DiplomaBatch{}, fmt.Errorf("generate batch id: %w", err)
	}
	batch := DiplomaBatch{ID: batchID, Results: make([]DiplomaResult, len(reqs))}
	if len(reqs) == 0 {
		return batch, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return DiplomaBatch{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, req := range reqs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			result := DiplomaResult{Request: req}
			if err := ctx.Err(); err != nil {
				result.Err = err
				batch.Results[i] = result
				return
			}
			result.Document, result.Err = s.Render(ctx, req)
			if result.Err == nil {
				s.archiveDocument(ctx, res.Competition.Name, batchID, result.Document)
			}
			batch.Results[i] = result
		}); err != nil {
			workers.Done()
			batch.Results[i] = DiplomaResult{Request: req, Err: fmt.Errorf("submit diploma task: %w", err)}
		}
	}
	workers.Wait()

	failed := len(batch.Failed())
	span.SetAttributes(attribute.Int("diploma.total", len(reqs)), attribute.Int("diploma.failed", failed))
	s.logger.InfoContext(ctx, "diploma batch finished",
		"batch_id", batchID,
		"competition_id", competitionID,
		"total", len(reqs),
		"failed", failed,
	)
	return batch, nil
}

func (s *DiplomaService) archiveDocument(ctx context.Context, competitionName, batchID string, doc diploma.Document) {
	if s.archive == nil {
		return
	}
	key := ArchiveKey(competitionName, batchID, doc.Filename)
	if err := s.archive.Put(ctx, key, "application/pdf", doc.Bytes); err != nil {
		s.logger.WarnContext(ctx, "archive diploma failed", "key", key, "error", err)
	}
}

// ArchiveKey is "diplomas/{competition-slug}/{batch}/{file-slug}.pdf".
func ArchiveKey(competitionName, batchID, filename string) string {
	base := strings.ReplaceAll(strings.TrimSuffix(filename, ".pdf"), "_", " ")
	return "diplomas/" + slug.Make(competitionName) + "/" + batchID + "/" + slug.Make(base) + ".pdf"
}

func individualFilename(categoryName, awardee string) string {
	return diploma.FilenamePart(categoryName) + "_" + diploma.FilenamePart(awardee) + "_Diploma.pdf"
}

func teamMemberFilename(categoryName, member, club string, placement award.Placement, year int) string {
	parts := []string{
		diploma.FilenamePart(categoryName),
		diploma.FilenamePart(member),
		diploma.FilenamePart(club),
		diploma.FilenamePart(placement.String()),
		strconv.Itoa(year),
		"Diploma.pdf",
	}
	return strings.Join(parts, "_")
}

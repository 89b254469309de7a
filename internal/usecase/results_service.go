package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/club"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
	"github.com/riskibarqy/federation-awards/internal/domain/results"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultTeamDetailFetchers = 8

type ResultsService struct {
	competitionRepo competition.Repository
	categoryRepo    category.Repository
	teamRepo        team.Repository
	athleteRepo     athlete.Repository
	clubRepo        club.Repository
	resolver        *ResultResolver
	logger          *logging.Logger
}

func NewResultsService(
	competitionRepo competition.Repository,
	categoryRepo category.Repository,
	teamRepo team.Repository,
	athleteRepo athlete.Repository,
	clubRepo club.Repository,
	logger *logging.Logger,
) *ResultsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultsService{
		competitionRepo: competitionRepo,
		categoryRepo:    categoryRepo,
		teamRepo:        teamRepo,
		athleteRepo:     athleteRepo,
		clubRepo:        clubRepo,
		resolver:        NewResultResolver(logger),
		logger:          logger.Named("results"),
	}
}

func (s *ResultsService) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.ListCompetitions")
	defer span.End()

	items, err := s.competitionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list competitions: %w", ErrDependencyUnavailable, err)
	}
	return items, nil
}

type sourceSnapshot struct {
	competitions []competition.Competition
	categories   []category.Category
	teams        []team.Team
	athletes     []athlete.Athlete
	clubs        []club.Club
}

// GetCompetitionResults fetches every source collection once, in parallel,
// and resolves all categories of the competition against local indexes.
func (s *ResultsService) GetCompetitionResults(ctx context.Context, competitionID int64) (results.CompetitionResults, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.GetCompetitionResults")
	defer span.End()
	span.SetAttributes(attribute.Int64("competition.id", competitionID))

	if competitionID <= 0 {
		return results.CompetitionResults{}, fmt.Errorf("%w: competition id must be positive", ErrInvalidInput)
	}

	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return results.CompetitionResults{}, err
	}

	comp, ok := findCompetition(snap.competitions, competitionID)
	if !ok {
		return results.CompetitionResults{}, fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
	}

	categories := make([]category.Category, 0)
	for _, c := range snap.categories {
		if c.CompetitionID == competitionID {
			categories = append(categories, c)
		}
	}

	idx := NewSourceIndex(snap.teams, snap.athletes, snap.clubs)
	idx = idx.withTeams(s.fetchMissingTeams(ctx, categories, idx))

	return s.Resolve(ctx, comp, categories, idx), nil
}

// Resolve is the pure part of GetCompetitionResults: normalize then join.
func (s *ResultsService) Resolve(ctx context.Context, comp competition.Competition, categories []category.Category, idx SourceIndex) results.CompetitionResults {
	out := results.CompetitionResults{
		Competition: comp,
		Categories:  make([]results.CategoryResult, 0, len(categories)),
	}

	seen := make(map[int64]struct{})
	addAthlete := func(id int64) {
		if id <= 0 {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out.AthleteIDs = append(out.AthleteIDs, id)
	}

	for _, cat := range categories {
		if err := cat.Validate(); err != nil {
			s.logger.WarnContext(ctx, "category failed validation", "category_id", cat.ID, "error", err)
		}
		cat = NormalizeCategory(ctx, s.logger, cat, idx)
		rows := s.resolver.ResolveCategory(ctx, cat, idx)
		out.Categories = append(out.Categories, results.CategoryResult{Category: cat, Rows: rows})

		if cat.IsTeam() {
			for _, entry := range cat.Teams {
				if t, ok := idx.rosterTeam(entry); ok {
					for _, id := range t.AthleteIDs() {
						addAthlete(id)
					}
				}
			}
			continue
		}
		for _, e := range cat.Enrollments {
			addAthlete(e.Athlete.ID)
		}
	}

	return out
}

func (s *ResultsService) fetchSnapshot(ctx context.Context) (sourceSnapshot, error) {
	var snap sourceSnapshot

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		items, err := s.competitionRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list competitions: %w", err)
		}
		snap.competitions = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.categoryRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		snap.categories = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.teamRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		snap.teams = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.athleteRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list athletes: %w", err)
		}
		snap.athletes = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.clubRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list clubs: %w", err)
		}
		snap.clubs = items
		return nil
	})

	if err := p.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "fetch source collections failed", "error", err)
		return sourceSnapshot{}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	return snap, nil
}

// fetchMissingTeams loads team detail for roster entries that neither the
// bulk list nor the embedded summary provided members for. Failures degrade
// to the "No members" row.
func (s *ResultsService) fetchMissingTeams(ctx context.Context, categories []category.Category, idx SourceIndex) []team.Team {
	missing := make([]int64, 0)
	queued := make(map[int64]struct{})
	for _, cat := range categories {
		if !cat.IsTeam() {
			continue
		}
		for _, entry := range cat.Teams {
			if entry.ID <= 0 {
				continue
			}
			if t, ok := idx.rosterTeam(entry); ok && t.HasMembers() {
				continue
			}
			if _, dup := queued[entry.ID]; dup {
				continue
			}
			queued[entry.ID] = struct{}{}
			missing = append(missing, entry.ID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	p := pool.NewWithResults[team.Team]().WithContext(ctx).WithMaxGoroutines(defaultTeamDetailFetchers)
	for _, teamID := range missing {
		p.Go(func(ctx context.Context) (team.Team, error) {
			t, found, err := s.teamRepo.GetByID(ctx, teamID)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch team detail failed", "team_id", teamID, "error", err)
				return team.Team{}, nil
			}
			if !found {
				s.logger.WarnContext(ctx, "team detail not found", "team_id", teamID)
				return team.Team{}, nil
			}
			return t, nil
		})
	}

	fetched, _ := p.Wait()
	out := make([]team.Team, 0, len(fetched))
	for _, t := range fetched {
		if t.ID > 0 {
			out = append(out, t)
		}
	}
	return out
}

func findCompetition(items []competition.Competition, id int64) (competition.Competition, bool) {
	for _, c := range items {
		if c.ID == id {
			return c, true
		}
	}
	return competition.Competition{}, false
}

package federationapi

import (
	"context"
	"errors"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/club"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
)

// The adapters below expose Gateway through the domain repository
// interfaces. A 404 on a by-id lookup becomes (zero, false, nil).

type CompetitionRepository struct{ gw Gateway }

func NewCompetitionRepository(gw Gateway) *CompetitionRepository {
	return &CompetitionRepository{gw: gw}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	return r.gw.ListCompetitions(ctx)
}

// GetByID scans the list endpoint; the API has no competition detail route the service relies on.
func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID int64) (competition.Competition, bool, error) {
	items, err := r.gw.ListCompetitions(ctx)
	if err != nil {
		return competition.Competition{}, false, err
	}
	for _, item := range items {
		if item.ID == competitionID {
			return item, true, nil
		}
	}
	return competition.Competition{}, false, nil
}

type CategoryRepository struct{ gw Gateway }

func NewCategoryRepository(gw Gateway) *CategoryRepository {
	return &CategoryRepository{gw: gw}
}

func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	return r.gw.ListCategories(ctx)
}

type TeamRepository struct{ gw Gateway }

func NewTeamRepository(gw Gateway) *TeamRepository {
	return &TeamRepository{gw: gw}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.gw.ListTeams(ctx)
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	return found(r.gw.GetTeam(ctx, teamID))
}

type AthleteRepository struct{ gw Gateway }

func NewAthleteRepository(gw Gateway) *AthleteRepository {
	return &AthleteRepository{gw: gw}
}

func (r *AthleteRepository) List(ctx context.Context) ([]athlete.Athlete, error) {
	return r.gw.ListAthletes(ctx)
}

func (r *AthleteRepository) GetByID(ctx context.Context, athleteID int64) (athlete.Athlete, bool, error) {
	return found(r.gw.GetAthlete(ctx, athleteID))
}

type ClubRepository struct{ gw Gateway }

func NewClubRepository(gw Gateway) *ClubRepository {
	return &ClubRepository{gw: gw}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	return r.gw.ListClubs(ctx)
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID int64) (club.Club, bool, error) {
	return found(r.gw.GetClub(ctx, clubID))
}

func found[T any](item T, err error) (T, bool, error) {
	if err != nil {
		var zero T
		if errors.Is(err, ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return item, true, nil
}

var (
	_ competition.Repository = (*CompetitionRepository)(nil)
	_ category.Repository    = (*CategoryRepository)(nil)
	_ team.Repository        = (*TeamRepository)(nil)
	_ athlete.Repository     = (*AthleteRepository)(nil)
	_ club.Repository        = (*ClubRepository)(nil)
)

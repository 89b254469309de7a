package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/club"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
	athletemock "github.com/riskibarqy/federation-awards/internal/mocks/domain/athlete"
	categorymock "github.com/riskibarqy/federation-awards/internal/mocks/domain/category"
	clubmock "github.com/riskibarqy/federation-awards/internal/mocks/domain/club"
	competitionmock "github.com/riskibarqy/federation-awards/internal/mocks/domain/competition"
	teammock "github.com/riskibarqy/federation-awards/internal/mocks/domain/team"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type resultsFixture struct {
	competitions *competitionmock.Repository
	categories   *categorymock.Repository
	teams        *teammock.Repository
	athletes     *athletemock.Repository
	clubs        *clubmock.Repository
	service      *ResultsService
}

func newResultsFixture(t *testing.T) *resultsFixture {
	t.Helper()

	f := &resultsFixture{
		competitions: competitionmock.NewRepository(t),
		categories:   categorymock.NewRepository(t),
		teams:        teammock.NewRepository(t),
		athletes:     athletemock.NewRepository(t),
		clubs:        clubmock.NewRepository(t),
	}
	f.service = NewResultsService(f.competitions, f.categories, f.teams, f.athletes, f.clubs, logging.NewNop())
	return f
}

func (f *resultsFixture) expectLists(comps []competition.Competition, cats []category.Category, teams []team.Team, athletes []athlete.Athlete, clubs []club.Club) {
	f.competitions.On("List", mock.Anything).Return(comps, nil)
	f.categories.On("List", mock.Anything).Return(cats, nil)
	f.teams.On("List", mock.Anything).Return(teams, nil)
	f.athletes.On("List", mock.Anything).Return(athletes, nil)
	f.clubs.On("List", mock.Anything).Return(clubs, nil)
}

func springCupFixture() ([]competition.Competition, []category.Category, []athlete.Athlete, []club.Club) {
	clubs := []club.Club{{ID: 1, Name: "Dragon"}, {ID: 2, Name: "Tiger"}}
	athletes := []athlete.Athlete{
		{ID: 4, FirstName: "Ana", LastName: "Pop", ClubID: 1},
		{ID: 5, FirstName: "Dan", LastName: "Ionescu", ClubID: 2},
		{ID: 6, FirstName: "Mara", LastName: "Stan", ClubID: 99},
	}
	cats := []category.Category{
		{
			ID: 10, CompetitionID: 1, Name: "U12 Kata", Type: category.TypeSolo, Gender: category.GenderMale,
			Enrollments: []category.Enrollment{
				{Athlete: athletes[0]},
				{Athlete: athletes[1]},
				{Athlete: athletes[2]},
			},
			FirstPlace: 5,
		},
		{ID: 11, CompetitionID: 2, Name: "Other Cup", Type: category.TypeSolo},
	}
	comps := []competition.Competition{{ID: 1, Name: "Spring Cup"}, {ID: 2, Name: "Autumn Cup"}}
	return comps, cats, athletes, clubs
}

func TestResultsService_GetCompetitionResults_ResolvesAllCategories(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	comps, cats, athletes, clubs := springCupFixture()
	f.expectLists(comps, cats, nil, athletes, clubs)

	res, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Spring Cup", res.Competition.Name)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, 3, res.TotalAthletes())

	rows := res.Categories[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Ana Pop (Dragon)", rows[0].DisplayName)
	assert.Equal(t, award.PlacementParticipant, rows[0].Placement)
	assert.Equal(t, "Dan Ionescu (Tiger)", rows[1].DisplayName)
	assert.Equal(t, award.PlacementFirst, rows[1].Placement)
	assert.Equal(t, "Mara Stan (Unknown Club)", rows[2].DisplayName)
	assert.Equal(t, award.PlacementParticipant, rows[2].Placement)
}

func TestResultsService_GetCompetitionResults_Idempotent(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	comps, cats, athletes, clubs := springCupFixture()
	f.expectLists(comps, cats, nil, athletes, clubs)

	first, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)
	second, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ between runs (-first +second):\n%s", diff)
	}
}

func TestResultsService_TeamWithoutMembersDegrades(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	clubs := []club.Club{{ID: 1, Name: "Dragon"}, {ID: 2, Name: "Tiger"}}
	athletes := []athlete.Athlete{
		{ID: 21, FirstName: "Ion", LastName: "Vlad", ClubID: 1},
		{ID: 22, FirstName: "Eva", LastName: "Rus", ClubID: 2},
	}
	teams := []team.Team{
		{ID: 8, Name: "Team A", Members: []team.Member{
			{ID: 1, Athlete: athlete.Athlete{ID: 21, FirstName: "Ion", LastName: "Vlad"}},
			{ID: 2, Athlete: athlete.Athlete{ID: 22, FirstName: "Eva", LastName: "Rus"}},
		}},
	}
	cats := []category.Category{{
		ID: 30, CompetitionID: 1, Name: "Team Kata", Type: category.TypeTeams, Gender: category.GenderMixt,
		Teams:          []team.Team{{ID: 8}, {ID: 9}},
		FirstPlaceTeam: category.WinnerRef{ID: 9},
	}}
	f.expectLists([]competition.Competition{{ID: 1, Name: "Spring Cup"}}, cats, teams, athletes, clubs)
	f.teams.On("GetByID", mock.Anything, int64(9)).Return(team.Team{ID: 9, Name: "Team B"}, true, nil).Once()

	res, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)

	rows := res.Categories[0].Rows
	require.Len(t, rows, 2)

	assert.Equal(t, "Ion Vlad (Dragon) + Eva Rus (Tiger)", rows[0].DisplayName)
	assert.Equal(t, "Dragon, Tiger", rows[0].ClubName)
	assert.Equal(t, award.PlacementParticipant, rows[0].Placement)
	require.Len(t, rows[0].Members, 2)

	assert.Equal(t, award.Row{
		EntrantID:   9,
		Kind:        award.KindTeam,
		DisplayName: award.NoMembers,
		AwardeeName: "Team B",
		Placement:   award.PlacementParticipant,
		ClubName:    award.UnknownClub,
	}, rows[1])
	assert.Equal(t, 2, res.TotalAthletes())
}

func TestResultsService_TeamMembersInheritPlacement(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	clubs := []club.Club{{ID: 1, Name: "Dragon"}}
	athletes := []athlete.Athlete{
		{ID: 21, FirstName: "Ion", LastName: "Vlad", ClubID: 1},
		{ID: 22, FirstName: "Eva", LastName: "Rus", ClubID: 1},
	}
	cats := []category.Category{{
		ID: 31, CompetitionID: 1, Name: "Team Kumite", Type: category.TypeTeams,
		// Embedded roster summary plus a legacy name-keyed winner.
		Teams: []team.Team{{ID: 8, Name: "Dragons", Members: []team.Member{
			{ID: 1, Athlete: athlete.Athlete{ID: 21, FirstName: "Ion", LastName: "Vlad"}},
			{ID: 2, Athlete: athlete.Athlete{ID: 22, FirstName: "Eva", LastName: "Rus"}},
		}}},
		SecondPlaceTeam: category.WinnerRef{Name: " dragons "},
	}}
	f.expectLists([]competition.Competition{{ID: 1, Name: "Spring Cup"}}, cats, nil, athletes, clubs)

	res, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)

	row := res.Categories[0].Rows[0]
	assert.Equal(t, award.PlacementSecond, row.Placement)
	assert.Equal(t, award.Winners{Second: 8}, res.Categories[0].Category.Winners)
	for _, m := range row.Members {
		assert.Equal(t, "Dragon", m.ClubName)
	}
}

func TestResultsService_CountsEachAthleteOnce(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	athletes := []athlete.Athlete{
		{ID: 21, FirstName: "Ion", LastName: "Vlad", ClubID: 1},
		{ID: 22, FirstName: "Eva", LastName: "Rus", ClubID: 1},
		{ID: 23, FirstName: "Dan", LastName: "Ionescu", ClubID: 1},
	}
	cats := []category.Category{
		{
			ID: 1, CompetitionID: 1, Name: "U14 Kata", Type: category.TypeSolo,
			Enrollments: []category.Enrollment{{Athlete: athletes[0]}},
		},
		{
			ID: 2, CompetitionID: 1, Name: "Team Kata", Type: category.TypeTeams,
			Teams: []team.Team{{ID: 8, Name: "Dragons", Members: []team.Member{
				{ID: 1, Athlete: athletes[0]},
				{ID: 2, Athlete: athletes[1]},
			}}},
		},
		{
			ID: 3, CompetitionID: 1, Name: "U14 Kumite", Type: category.TypeFight,
			Enrollments: []category.Enrollment{{Athlete: athletes[1]}, {Athlete: athletes[2]}},
		},
		{
			ID: 4, CompetitionID: 1, Name: "Open Kumite", Type: category.TypeFight,
			Enrollments: []category.Enrollment{{Athlete: athletes[2]}},
		},
	}
	f.expectLists([]competition.Competition{{ID: 1, Name: "Spring Cup"}}, cats, nil, athletes, []club.Club{{ID: 1, Name: "Dragon"}})

	res, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{21, 22, 23}, res.AthleteIDs)
	assert.Equal(t, 3, res.TotalAthletes())
	assert.Equal(t, 4, res.TotalCategories())
}

func TestResultsService_EmptyCategoryProducesNoRows(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	cats := []category.Category{
		{ID: 40, CompetitionID: 1, Name: "Empty Solo", Type: category.TypeSolo},
		{ID: 41, CompetitionID: 1, Name: "Empty Teams", Type: category.TypeTeams},
	}
	f.expectLists([]competition.Competition{{ID: 1, Name: "Spring Cup"}}, cats, nil, nil, nil)

	res, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, res.Categories, 2)
	assert.Empty(t, res.Categories[0].Rows)
	assert.Empty(t, res.Categories[1].Rows)
	assert.Zero(t, res.TotalAthletes())
}

func TestResultsService_NoCategories(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	f.expectLists([]competition.Competition{{ID: 3, Name: "Winter Open"}}, nil, nil, nil, nil)

	res, err := f.service.GetCompetitionResults(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
}

func TestResultsService_UnknownCompetition(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	f.expectLists([]competition.Competition{{ID: 1, Name: "Spring Cup"}}, nil, nil, nil, nil)

	_, err := f.service.GetCompetitionResults(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResultsService_FetchFailure(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	upstream := errors.New("status=503")
	f.competitions.On("List", mock.Anything).Return([]competition.Competition{{ID: 1}}, nil).Maybe()
	f.categories.On("List", mock.Anything).Return(nil, upstream)
	f.teams.On("List", mock.Anything).Return(nil, nil).Maybe()
	f.athletes.On("List", mock.Anything).Return(nil, nil).Maybe()
	f.clubs.On("List", mock.Anything).Return(nil, nil).Maybe()

	_, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.ErrorIs(t, err, upstream)
}

func TestResultsService_InvalidCompetitionID(t *testing.T) {
	t.Parallel()

	f := newResultsFixture(t)
	_, err := f.service.GetCompetitionResults(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

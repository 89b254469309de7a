package results

import (
	"testing"

	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/stretchr/testify/assert"
)

func TestCompetitionResults_TallyByClub(t *testing.T) {
	t.Parallel()

	res := CompetitionResults{Categories: []CategoryResult{
		{
			Category: category.Category{ID: 1, Type: category.TypeSolo},
			Rows: []award.Row{
				{Kind: award.KindIndividual, ClubName: "Dragon", Placement: award.PlacementFirst},
				{Kind: award.KindIndividual, ClubName: "Tiger", Placement: award.PlacementSecond},
				{Kind: award.KindIndividual, ClubName: "Tiger", Placement: award.PlacementParticipant},
			},
		},
		{
			Category: category.Category{ID: 2, Type: category.TypeTeams},
			Rows: []award.Row{
				{Kind: award.KindTeam, Placement: award.PlacementFirst, Members: []award.MemberRow{
					{AthleteID: 1, ClubName: "Tiger"},
					{AthleteID: 2, ClubName: "Tiger"},
					{AthleteID: 3, ClubName: "Crane"},
				}},
			},
		},
	}}

	got := res.TallyByClub()

	assert.Equal(t, []MedalCount{
		{ClubName: "Tiger", Gold: 1, Silver: 1},
		{ClubName: "Crane", Gold: 1},
		{ClubName: "Dragon", Gold: 1},
	}, got)
}

func TestCompetitionResults_Lookup(t *testing.T) {
	t.Parallel()

	res := CompetitionResults{Categories: []CategoryResult{{Category: category.Category{ID: 4}}}}

	_, ok := res.Category(4)
	assert.True(t, ok)
	_, ok = res.Category(5)
	assert.False(t, ok)
	assert.Equal(t, 1, res.TotalCategories())
	assert.False(t, res.IsEmpty())
}

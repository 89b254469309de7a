package team

import (
	"testing"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/stretchr/testify/assert"
)

func TestTeam_AthleteIDs(t *testing.T) {
	t.Parallel()

	tm := Team{ID: 9, Members: []Member{
		{ID: 1, Athlete: athlete.Athlete{ID: 12}},
		{ID: 2},
		{ID: 3, Athlete: athlete.Athlete{ID: 4}},
	}}

	assert.Equal(t, []int64{12, 4}, tm.AthleteIDs())
	assert.True(t, tm.HasMembers())
	assert.Error(t, Team{}.Validate())
}

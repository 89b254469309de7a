package category

import (
	"testing"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
	"github.com/stretchr/testify/assert"
)

func TestType_Kind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, award.KindIndividual, TypeSolo.Kind())
	assert.Equal(t, award.KindIndividual, TypeFight.Kind())
	assert.Equal(t, award.KindTeam, TypeTeams.Kind())
	assert.Equal(t, "Teams", TypeTeams.Label())
	assert.Equal(t, "Male", GenderMale.Label())
}

func TestCategory_GroupGenderLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "U12 - Female", Category{GroupName: "U12", Gender: GenderFemale}.GroupGenderLine())
	assert.Equal(t, "Mixt", Category{Gender: GenderMixt}.GroupGenderLine())
}

func TestCategory_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cat     Category
		wantErr bool
	}{
		{name: "individual", cat: Category{ID: 1, Type: TypeSolo, Enrollments: []Enrollment{{Athlete: athlete.Athlete{ID: 2}}}}},
		{name: "team", cat: Category{ID: 1, Type: TypeTeams, Teams: []team.Team{{ID: 3}}}},
		{name: "mixed roster", cat: Category{ID: 1, Type: TypeTeams, Teams: []team.Team{{ID: 3}}, Enrollments: []Enrollment{{}}}, wantErr: true},
		{name: "unknown type", cat: Category{ID: 1, Type: "relay"}, wantErr: true},
		{name: "missing id", cat: Category{Type: TypeSolo}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cat.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

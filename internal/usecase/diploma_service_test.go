package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/club"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
	"github.com/riskibarqy/federation-awards/internal/domain/diploma"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errObjectMissing = errors.New("object not found")

type fakeTemplateStore struct {
	files map[string][]byte
}

func (s fakeTemplateStore) Load(_ context.Context, name string) ([]byte, error) {
	if b, ok := s.files[name]; ok {
		return b, nil
	}
	return nil, errObjectMissing
}

type fakeRenderer struct{}

func (fakeRenderer) Render(template []byte, font diploma.Font, fields []diploma.Field) ([]byte, error) {
	texts := make([]string, 0, len(fields))
	for _, f := range fields {
		texts = append(texts, f.Text)
	}
	return []byte(string(template) + "|" + font.Family + "|" + strings.Join(texts, ";")), nil
}

type memoryArchive struct {
	mu   sync.Mutex
	keys []string
}

func (a *memoryArchive) Put(_ context.Context, key, _ string, _ []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys = append(a.keys, key)
	return nil
}

type fixedIDs struct{}

func (fixedIDs) NewID() (string, error) { return "batch-1", nil }

func testLayouts() diploma.LayoutSet {
	fields := map[diploma.Slot]diploma.Position{
		diploma.SlotAwardee:     {Y: 250, Size: 24},
		diploma.SlotCategory:    {Y: 210, Size: 16},
		diploma.SlotGroupGender: {Y: 170, Size: 14},
		diploma.SlotClub:        {Y: 130, Size: 12},
	}
	font := diploma.FontSpec{Family: "Helvetica", Style: "B"}
	return diploma.LayoutSet{Tiers: map[string]diploma.Layout{
		"first":             {Template: "first.pdf", Font: font, Fields: fields},
		"second":            {Template: "second.pdf", Font: font, Fields: fields},
		"third":             {Template: "third.pdf", Font: font, Fields: fields},
		diploma.DefaultTier: {Template: "default.pdf", Font: font, Fields: fields},
	}}
}

func newDiplomaFixture(t *testing.T, files map[string][]byte, archive DiplomaArchive) (*resultsFixture, *DiplomaService) {
	t.Helper()

	f := newResultsFixture(t)
	clubs := []club.Club{{ID: 1, Name: "Dragon"}, {ID: 2, Name: "Tiger"}}
	athletes := []athlete.Athlete{
		{ID: 4, FirstName: "Ana", LastName: "Pop", ClubID: 1},
		{ID: 5, FirstName: "Dan", LastName: "Ionescu", ClubID: 2},
		{ID: 6, FirstName: "Mara", LastName: "Stan", ClubID: 1},
		{ID: 21, FirstName: "Ion", LastName: "Vlad", ClubID: 1},
		{ID: 22, FirstName: "Eva", LastName: "Rus", ClubID: 2},
	}
	cats := []category.Category{
		{
			ID: 10, CompetitionID: 1, Name: "U12 Kata", Type: category.TypeSolo, Gender: category.GenderMale, GroupName: "U12",
			Enrollments: []category.Enrollment{{Athlete: athletes[0]}, {Athlete: athletes[1]}, {Athlete: athletes[2]}},
			FirstPlace:  5, SecondPlace: 4,
		},
		{
			ID: 30, CompetitionID: 1, Name: "Team Kata", Type: category.TypeTeams, Gender: category.GenderMixt,
			Teams: []team.Team{{ID: 8, Name: "Dragons", Members: []team.Member{
				{ID: 1, Athlete: athlete.Athlete{ID: 21, FirstName: "Ion", LastName: "Vlad"}},
				{ID: 2, Athlete: athlete.Athlete{ID: 22, FirstName: "Eva", LastName: "Rus"}},
			}}},
			ThirdPlaceTeam: category.WinnerRef{ID: 8},
		},
	}
	comps := []competition.Competition{{ID: 1, Name: "Spring Cup", StartDate: time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)}}
	f.expectLists(comps, cats, nil, athletes, clubs)

	svc := NewDiplomaService(
		f.service,
		fakeTemplateStore{files: files},
		fakeRenderer{},
		archive,
		fixedIDs{},
		DiplomaServiceConfig{Workers: 2, Layouts: testLayouts()},
		nil,
		logging.NewNop(),
	)
	return f, svc
}

func allTemplates() map[string][]byte {
	return map[string][]byte{
		"first.pdf":   []byte("T1"),
		"second.pdf":  []byte("T2"),
		"third.pdf":   []byte("T3"),
		"default.pdf": []byte("TD"),
	}
}

func TestDiplomaService_BuildRequests(t *testing.T) {
	t.Parallel()

	f, svc := newDiplomaFixture(t, allTemplates(), nil)
	res, err := f.service.GetCompetitionResults(context.Background(), 1)
	require.NoError(t, err)

	reqs, err := svc.BuildRequests(res, DiplomaFilter{})
	require.NoError(t, err)

	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		names = append(names, r.Filename)
	}
	assert.Equal(t, []string{
		"U12_Kata_Ana_Pop_Diploma.pdf",
		"U12_Kata_Dan_Ionescu_Diploma.pdf",
		"Team_Kata_Ion_Vlad_Dragon_3rd_Place_2025_Diploma.pdf",
		"Team_Kata_Eva_Rus_Tiger_3rd_Place_2025_Diploma.pdf",
	}, names)

	for _, r := range reqs[2:] {
		assert.Equal(t, award.PlacementThird, r.Placement, "team members inherit the team placement")
	}

	all, err := svc.BuildRequests(res, DiplomaFilter{CategoryID: 10, IncludeParticipants: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.BuildRequests(res, DiplomaFilter{CategoryID: 99})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiplomaService_GenerateBatch_OneTemplateMissing(t *testing.T) {
	t.Parallel()

	files := allTemplates()
	delete(files, "second.pdf")
	archive := &memoryArchive{}
	_, svc := newDiplomaFixture(t, files, archive)

	batch, err := svc.GenerateBatch(context.Background(), 1, DiplomaFilter{CategoryID: 10})
	require.NoError(t, err)

	assert.Equal(t, "batch-1", batch.ID)
	require.Len(t, batch.Results, 2)

	failed := batch.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "U12_Kata_Ana_Pop_Diploma.pdf", failed[0].Request.Filename)
	assert.ErrorIs(t, failed[0].Err, diploma.ErrTemplateUnavailable)
	assert.ErrorIs(t, failed[0].Err, errObjectMissing)

	ok := batch.Succeeded()
	require.Len(t, ok, 1)
	assert.Equal(t, "U12_Kata_Dan_Ionescu_Diploma.pdf", ok[0].Document.Filename)
	assert.Equal(t, "T1|Helvetica|U12 - Male;U12 Kata;Dan Ionescu;Tiger", string(ok[0].Document.Bytes))

	assert.Equal(t, []string{"diplomas/spring-cup/batch-1/u12-kata-dan-ionescu-diploma.pdf"}, archive.keys)
}

func TestDiplomaService_ParticipantsUseDefaultTemplate(t *testing.T) {
	t.Parallel()

	_, svc := newDiplomaFixture(t, allTemplates(), nil)

	doc, err := svc.Single(context.Background(), 1, 10, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "U12_Kata_Mara_Stan_Diploma.pdf", doc.Filename)
	assert.True(t, strings.HasPrefix(string(doc.Bytes), "TD|"))
}

func TestDiplomaService_SingleTeamMember(t *testing.T) {
	t.Parallel()

	_, svc := newDiplomaFixture(t, allTemplates(), nil)

	_, err := svc.Single(context.Background(), 1, 30, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	doc, err := svc.Single(context.Background(), 1, 30, 0, 22)
	require.NoError(t, err)
	assert.Equal(t, "Team_Kata_Eva_Rus_Tiger_3rd_Place_2025_Diploma.pdf", doc.Filename)

	_, err = svc.Single(context.Background(), 1, 30, 0, 77)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Single(context.Background(), 1, 30, 5, 22)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "diplomas/spring-cup-2025/b1/u12-kata-ana-pop-diploma.pdf",
		ArchiveKey("Spring Cup 2025", "b1", "U12_Kata_Ana_Pop_Diploma.pdf"))
}

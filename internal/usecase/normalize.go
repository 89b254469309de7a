package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/club"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
)

// SourceIndex holds id-indexed source collections fetched once per request.
type SourceIndex struct {
	teams    map[int64]team.Team
	athletes map[int64]athlete.Athlete
	clubs    map[int64]club.Club
}

func NewSourceIndex(teams []team.Team, athletes []athlete.Athlete, clubs []club.Club) SourceIndex {
	idx := SourceIndex{
		teams:    make(map[int64]team.Team, len(teams)),
		athletes: make(map[int64]athlete.Athlete, len(athletes)),
		clubs:    make(map[int64]club.Club, len(clubs)),
	}
	for _, t := range teams {
		if t.ID > 0 {
			idx.teams[t.ID] = t
		}
	}
	for _, a := range athletes {
		if a.ID > 0 {
			idx.athletes[a.ID] = a
		}
	}
	for _, c := range clubs {
		if c.ID > 0 {
			idx.clubs[c.ID] = c
		}
	}
	return idx
}

func (i SourceIndex) Team(id int64) (team.Team, bool) {
	t, ok := i.teams[id]
	return t, ok
}

func (i SourceIndex) Athlete(id int64) (athlete.Athlete, bool) {
	a, ok := i.athletes[id]
	return a, ok
}

// ClubName resolves a club id, falling back to "Unknown Club".
func (i SourceIndex) ClubName(id int64) string {
	if c, ok := i.clubs[id]; ok && strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return award.UnknownClub
}

// withTeams returns a copy of the index with extra team records added.
func (i SourceIndex) withTeams(extra []team.Team) SourceIndex {
	if len(extra) == 0 {
		return i
	}
	teams := make(map[int64]team.Team, len(i.teams)+len(extra))
	for id, t := range i.teams {
		teams[id] = t
	}
	for _, t := range extra {
		if t.ID > 0 {
			teams[t.ID] = t
		}
	}
	return SourceIndex{teams: teams, athletes: i.athletes, clubs: i.clubs}
}

// rosterTeam picks the indexed team record, falling back to the summary
// embedded in the category roster when the index has no members for it.
func (i SourceIndex) rosterTeam(entry team.Team) (team.Team, bool) {
	if t, ok := i.teams[entry.ID]; ok && t.HasMembers() {
		return t, true
	}
	if entry.HasMembers() {
		return entry, true
	}
	if t, ok := i.teams[entry.ID]; ok {
		return t, true
	}
	return entry, false
}

// NormalizeCategory fills the canonical podium. Individual podiums are athlete
// ids already. Team podiums may arrive as embedded objects or legacy names;
// names are mapped to ids against the roster first, then the team index.
func NormalizeCategory(ctx context.Context, logger *logging.Logger, cat category.Category, idx SourceIndex) category.Category {
	if !cat.IsTeam() {
		cat.Winners = award.Winners{First: cat.FirstPlace, Second: cat.SecondPlace, Third: cat.ThirdPlace}
	} else {
		refs := cat.TeamWinnerRefs()
		ids := [3]int64{}
		for slot, ref := range refs {
			if ref.IsZero() {
				continue
			}
			id := resolveTeamRef(cat, idx, ref)
			if id <= 0 {
				logger.WarnContext(ctx, "team winner reference did not resolve",
					"category_id", cat.ID,
					"slot", award.Placement(slot+1).String(),
					"winner_name", ref.Name,
				)
				continue
			}
			ids[slot] = id
		}
		cat.Winners = award.Winners{First: ids[0], Second: ids[1], Third: ids[2]}
	}

	if err := cat.Winners.Validate(); err != nil {
		logger.WarnContext(ctx, "category podium has duplicate winners", "category_id", cat.ID, "error", err)
	}
	return cat
}

func resolveTeamRef(cat category.Category, idx SourceIndex, ref category.WinnerRef) int64 {
	if ref.ID > 0 {
		return ref.ID
	}
	name := normalizeName(ref.Name)

	for _, entry := range cat.Teams {
		if normalizeName(entry.Name) == name {
			return entry.ID
		}
		if t, ok := idx.Team(entry.ID); ok && normalizeName(t.Name) == name {
			return t.ID
		}
	}

	var match int64
	for id, t := range idx.teams {
		if normalizeName(t.Name) != name {
			continue
		}
		if match != 0 {
			// Ambiguous outside the roster.
			return 0
		}
		match = id
	}
	return match
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

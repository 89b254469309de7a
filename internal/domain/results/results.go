// Package results holds the immutable outcome of resolving one competition.
package results

import (
	"sort"

	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
)

// CategoryResult pairs a category with its resolved rows in resolution order.
type CategoryResult struct {
	Category category.Category
	Rows     []award.Row
}

// Sorted returns the rows in placement order.
func (r CategoryResult) Sorted() []award.Row {
	return award.SortByPlacement(r.Rows)
}

// CompetitionResults is recomputed from source collections on every request.
type CompetitionResults struct {
	Competition competition.Competition
	Categories  []CategoryResult
	// AthleteIDs is the distinct set of athletes across individual
	// enrollments and every member of every listed team.
	AthleteIDs []int64
}

func (r CompetitionResults) TotalAthletes() int {
	return len(r.AthleteIDs)
}

func (r CompetitionResults) TotalCategories() int {
	return len(r.Categories)
}

func (r CompetitionResults) IsEmpty() bool {
	return len(r.Categories) == 0
}

func (r CompetitionResults) Category(categoryID int64) (CategoryResult, bool) {
	for _, c := range r.Categories {
		if c.Category.ID == categoryID {
			return c, true
		}
	}
	return CategoryResult{}, false
}

// MedalCount is one club's podium tally.
type MedalCount struct {
	ClubName string
	Gold     int
	Silver   int
	Bronze   int
}

func (m MedalCount) Total() int {
	return m.Gold + m.Silver + m.Bronze
}

// TallyByClub counts podium placements per club. Team rows credit every
// member's club once per row. Clubs are ordered by gold, silver, bronze, then name.
func (r CompetitionResults) TallyByClub() []MedalCount {
	byClub := map[string]*MedalCount{}
	credit := func(club string, p award.Placement) {
		if club == "" {
			club = award.UnknownClub
		}
		mc, ok := byClub[club]
		if !ok {
			mc = &MedalCount{ClubName: club}
			byClub[club] = mc
		}
		switch p {
		case award.PlacementFirst:
			mc.Gold++
		case award.PlacementSecond:
			mc.Silver++
		case award.PlacementThird:
			mc.Bronze++
		}
	}

	for _, c := range r.Categories {
		for _, row := range c.Rows {
			if !row.Placement.IsPodium() {
				continue
			}
			if row.Kind != award.KindTeam {
				credit(row.ClubName, row.Placement)
				continue
			}
			clubs := map[string]struct{}{}
			for _, m := range row.Members {
				if _, dup := clubs[m.ClubName]; dup {
					continue
				}
				clubs[m.ClubName] = struct{}{}
				credit(m.ClubName, row.Placement)
			}
		}
	}

	out := make([]MedalCount, 0, len(byClub))
	for _, mc := range byClub {
		out = append(out, *mc)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Silver != b.Silver {
			return a.Silver > b.Silver
		}
		if a.Bronze != b.Bronze {
			return a.Bronze > b.Bronze
		}
		return a.ClubName < b.ClubName
	})
	return out
}

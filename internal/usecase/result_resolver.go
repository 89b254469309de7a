package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
)

// ResultResolver joins a normalized category against the source index.
// It never fails: malformed entries degrade to placeholder rows.
type ResultResolver struct {
	logger *logging.Logger
}

func NewResultResolver(logger *logging.Logger) *ResultResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultResolver{logger: logger.Named("resolver")}
}

func (r *ResultResolver) ResolveCategory(ctx context.Context, cat category.Category, idx SourceIndex) []award.Row {
	if cat.IsTeam() {
		rows := make([]award.Row, 0, len(cat.Teams))
		for _, entry := range cat.Teams {
			rows = append(rows, r.resolveTeam(ctx, cat, entry, idx))
		}
		return rows
	}

	rows := make([]award.Row, 0, len(cat.Enrollments))
	for _, enrollment := range cat.Enrollments {
		rows = append(rows, r.resolveEnrollment(ctx, cat, enrollment, idx))
	}
	return rows
}

func (r *ResultResolver) resolveEnrollment(ctx context.Context, cat category.Category, enrollment category.Enrollment, idx SourceIndex) award.Row {
	a := enrollment.Athlete
	indexed, known := idx.Athlete(a.ID)

	name := a.FullName()
	if name == "" && known {
		name = indexed.FullName()
	}
	if name == "" {
		r.logger.WarnContext(ctx, "enrollment without athlete name", "category_id", cat.ID, "athlete_id", a.ID)
		name = award.UnknownAthlete
	}

	clubID := a.ClubID
	if clubID <= 0 && known {
		clubID = indexed.ClubID
	}
	clubName := idx.ClubName(clubID)
	if clubName == award.UnknownClub {
		r.logger.DebugContext(ctx, "athlete club did not resolve", "category_id", cat.ID, "athlete_id", a.ID, "club_id", clubID)
	}

	return award.Row{
		EntrantID:   a.ID,
		Kind:        award.KindIndividual,
		DisplayName: award.EntrantLabel(name, clubName),
		AwardeeName: name,
		Placement:   award.Classify(cat.Winners, a.ID),
		ClubName:    clubName,
	}
}

func (r *ResultResolver) resolveTeam(ctx context.Context, cat category.Category, entry team.Team, idx SourceIndex) award.Row {
	t, ok := idx.rosterTeam(entry)
	if !ok || !t.HasMembers() {
		r.logger.WarnContext(ctx, "team has no member data", "category_id", cat.ID, "team_id", entry.ID)
		return award.Row{
			EntrantID:   entry.ID,
			Kind:        award.KindTeam,
			DisplayName: award.NoMembers,
			AwardeeName: strings.TrimSpace(t.Name),
			Placement:   award.PlacementParticipant,
			ClubName:    award.UnknownClub,
		}
	}

	members := make([]award.MemberRow, 0, len(t.Members))
	labels := make([]string, 0, len(t.Members))
	clubs := make([]string, 0, len(t.Members))
	seenClubs := make(map[string]struct{}, len(t.Members))

	for _, m := range t.Members {
		member := r.resolveMember(ctx, cat, t, m.Athlete, idx)
		members = append(members, member)
		labels = append(labels, member.Label())
		if _, dup := seenClubs[member.ClubName]; !dup {
			seenClubs[member.ClubName] = struct{}{}
			clubs = append(clubs, member.ClubName)
		}
	}

	return award.Row{
		EntrantID:   t.ID,
		Kind:        award.KindTeam,
		DisplayName: strings.Join(labels, award.MemberSeparator),
		AwardeeName: strings.TrimSpace(t.Name),
		Placement:   award.Classify(cat.Winners, t.ID),
		ClubName:    strings.Join(clubs, ", "),
		Members:     members,
	}
}

func (r *ResultResolver) resolveMember(ctx context.Context, cat category.Category, t team.Team, embedded athlete.Athlete, idx SourceIndex) award.MemberRow {
	out := award.MemberRow{
		AthleteID: embedded.ID,
		FirstName: strings.TrimSpace(embedded.FirstName),
		LastName:  strings.TrimSpace(embedded.LastName),
		ClubName:  award.UnknownClub,
	}

	indexed, known := idx.Athlete(embedded.ID)
	if known {
		if indexed.HasName() {
			out.FirstName = strings.TrimSpace(indexed.FirstName)
			out.LastName = strings.TrimSpace(indexed.LastName)
		}
		out.ClubName = idx.ClubName(indexed.ClubID)
	} else if embedded.ClubID > 0 {
		out.ClubName = idx.ClubName(embedded.ClubID)
	}

	if out.FirstName == "" && out.LastName == "" {
		r.logger.WarnContext(ctx, "team member without athlete name",
			"category_id", cat.ID, "team_id", t.ID, "athlete_id", embedded.ID)
		out.FirstName = award.UnknownAthlete
	}
	return out
}

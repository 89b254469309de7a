package federationapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/club"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
)

// Gateway is the read surface of the federation REST API.
type Gateway interface {
	ListCompetitions(ctx context.Context) ([]competition.Competition, error)
	ListCategories(ctx context.Context) ([]category.Category, error)
	ListTeams(ctx context.Context) ([]team.Team, error)
	GetTeam(ctx context.Context, teamID int64) (team.Team, error)
	ListAthletes(ctx context.Context) ([]athlete.Athlete, error)
	GetAthlete(ctx context.Context, athleteID int64) (athlete.Athlete, error)
	ListClubs(ctx context.Context) ([]club.Club, error)
	GetClub(ctx context.Context, clubID int64) (club.Club, error)
}

var _ Gateway = (*Client)(nil)

func (c *Client) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	items, err := listAll[competitionDTO](ctx, c, "competition", "/competition/")
	if err != nil {
		return nil, err
	}
	return mapItems(items, competitionDTO.toDomain), nil
}

func (c *Client) ListCategories(ctx context.Context) ([]category.Category, error) {
	items, err := listAll[categoryDTO](ctx, c, "category", "/category/")
	if err != nil {
		return nil, err
	}
	return mapItems(items, categoryDTO.toDomain), nil
}

func (c *Client) ListTeams(ctx context.Context) ([]team.Team, error) {
	items, err := listAll[teamDTO](ctx, c, "team", "/team/")
	if err != nil {
		return nil, err
	}
	return mapItems(items, teamDTO.toDomain), nil
}

func (c *Client) GetTeam(ctx context.Context, teamID int64) (team.Team, error) {
	var out teamDTO
	if err := c.getByID(ctx, "team", teamID, &out); err != nil {
		return team.Team{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) ListAthletes(ctx context.Context) ([]athlete.Athlete, error) {
	items, err := listAll[athleteDTO](ctx, c, "athlete", "/athlete/")
	if err != nil {
		return nil, err
	}
	return mapItems(items, athleteDTO.toDomain), nil
}

func (c *Client) GetAthlete(ctx context.Context, athleteID int64) (athlete.Athlete, error) {
	var out athleteDTO
	if err := c.getByID(ctx, "athlete", athleteID, &out); err != nil {
		return athlete.Athlete{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) ListClubs(ctx context.Context) ([]club.Club, error) {
	items, err := listAll[clubDTO](ctx, c, "club", "/club/")
	if err != nil {
		return nil, err
	}
	return mapItems(items, clubDTO.toDomain), nil
}

func (c *Client) GetClub(ctx context.Context, clubID int64) (club.Club, error) {
	var out clubDTO
	if err := c.getByID(ctx, "club", clubID, &out); err != nil {
		return club.Club{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) getByID(ctx context.Context, resource string, id int64, target any) error {
	if id <= 0 {
		return crerr.Newf("%s id must be greater than zero", resource)
	}
	path := fmt.Sprintf("/%s/%d/", resource, id)
	if err := c.doJSON(ctx, resource+"_by_id", path, target); err != nil {
		return fmt.Errorf("fetch %s id=%d: %w", resource, id, err)
	}
	return nil
}

// listAll follows "next" links when the API paginates; a bare array is one page.
func listAll[T any](ctx context.Context, c *Client, resource, path string) ([]T, error) {
	fullURL := c.baseURL + path
	var out []T
	for page := 0; page < maxListPages && fullURL != ""; page++ {
		raw, err := c.get(ctx, resource, fullURL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s list: %w", resource, err)
		}

		var decoded listPage[T]
		if err := sonic.Unmarshal(raw, &decoded); err != nil {
			return nil, crerr.Wrapf(err, "decode %s list", resource)
		}
		out = append(out, decoded.Items...)

		next, err := c.resolveNext(fullURL, decoded.Next)
		if err != nil {
			return nil, err
		}
		fullURL = next
	}
	return out, nil
}

func (c *Client) resolveNext(current, next string) (string, error) {
	next = strings.TrimSpace(next)
	if next == "" {
		return "", nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", crerr.Wrap(err, "parse page url")
	}
	target, err := url.Parse(next)
	if err != nil {
		return "", crerr.Wrap(err, "parse next page url")
	}
	resolved := base.ResolveReference(target)
	if resolved.Host != base.Host {
		return "", crerr.Newf("next page host %q differs from api host", resolved.Host)
	}
	return resolved.String(), nil
}

func mapItems[T any, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

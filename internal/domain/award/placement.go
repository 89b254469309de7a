package award

import (
	"fmt"
	"strings"
)

// Placement orders award tiers: First < Second < Third < Participant.
type Placement int

const (
	PlacementFirst Placement = iota + 1
	PlacementSecond
	PlacementThird
	PlacementParticipant
)

var placementLabels = map[Placement]string{
	PlacementFirst:       "1st Place",
	PlacementSecond:      "2nd Place",
	PlacementThird:       "3rd Place",
	PlacementParticipant: "Participant",
}

func (p Placement) String() string {
	if label, ok := placementLabels[p]; ok {
		return label
	}
	return placementLabels[PlacementParticipant]
}

// Medal returns the podium emoji, empty for participants.
func (p Placement) Medal() string {
	switch p {
	case PlacementFirst:
		return "🥇"
	case PlacementSecond:
		return "🥈"
	case PlacementThird:
		return "🥉"
	default:
		return ""
	}
}

// Display is the table label, e.g. "🥇 1st Place".
func (p Placement) Display() string {
	if medal := p.Medal(); medal != "" {
		return medal + " " + p.String()
	}
	return p.String()
}

func (p Placement) IsPodium() bool {
	return p >= PlacementFirst && p <= PlacementThird
}

// Tier names the diploma template for the placement.
func (p Placement) Tier() string {
	switch p {
	case PlacementFirst:
		return "first"
	case PlacementSecond:
		return "second"
	case PlacementThird:
		return "third"
	default:
		return "default"
	}
}

// ParsePlacement accepts labels ("2nd Place"), display strings and tier names.
func ParsePlacement(v string) (Placement, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	for _, medal := range []string{"🥇", "🥈", "🥉"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, medal))
	}

	switch s {
	case "1st place", "first", "1":
		return PlacementFirst, nil
	case "2nd place", "second", "2":
		return PlacementSecond, nil
	case "3rd place", "third", "3":
		return PlacementThird, nil
	case "participant", "default":
		return PlacementParticipant, nil
	}
	return 0, fmt.Errorf("unknown placement %q", v)
}

func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Placement) UnmarshalText(b []byte) error {
	parsed, err := ParsePlacement(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

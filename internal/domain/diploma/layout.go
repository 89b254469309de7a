package diploma

import (
	"fmt"
)

// Slot names a field position on the template.
type Slot string

const (
	SlotAwardee     Slot = "awardee"
	SlotCategory    Slot = "category"
	SlotGroupGender Slot = "group_gender"
	SlotClub        Slot = "club"
)

// DrawOrder is the order fields are placed on the page.
var DrawOrder = []Slot{SlotGroupGender, SlotCategory, SlotAwardee, SlotClub}

// Position is a layout constant for one slot.
type Position struct {
	X    *float64 `yaml:"x,omitempty"`
	Y    float64  `yaml:"y"`
	Size float64  `yaml:"size"`
}

// Layout describes one template: its file and where each slot goes.
type Layout struct {
	Template string            `yaml:"template"`
	Font     FontSpec          `yaml:"font"`
	Fields   map[Slot]Position `yaml:"fields"`
}

type FontSpec struct {
	Family string `yaml:"family"`
	Style  string `yaml:"style"`
	File   string `yaml:"file,omitempty"`
}

// LayoutSet maps placement tiers (first, second, third, default) to layouts.
type LayoutSet struct {
	Tiers map[string]Layout `yaml:"tiers"`
}

const DefaultTier = "default"

// ForTier returns the tier layout, falling back to the default tier.
// Participants always use the default tier.
func (s LayoutSet) ForTier(tier string) (Layout, error) {
	if l, ok := s.Tiers[tier]; ok && l.Template != "" {
		return l, nil
	}
	if l, ok := s.Tiers[DefaultTier]; ok && l.Template != "" {
		return l, nil
	}
	return Layout{}, fmt.Errorf("%w: no layout for tier %q", ErrTemplateUnavailable, tier)
}

func (s LayoutSet) Validate() error {
	if _, ok := s.Tiers[DefaultTier]; !ok {
		return fmt.Errorf("layout set requires a %q tier", DefaultTier)
	}
	for tier, l := range s.Tiers {
		if l.Template == "" {
			return fmt.Errorf("tier %q: template is required", tier)
		}
		if _, ok := l.Fields[SlotAwardee]; !ok {
			return fmt.Errorf("tier %q: awardee field is required", tier)
		}
		for slot, pos := range l.Fields {
			if pos.Size <= 0 {
				return fmt.Errorf("tier %q slot %q: size must be positive", tier, slot)
			}
		}
	}
	return nil
}

// Place builds the ordered field list for the given slot texts. Slots
// missing from the layout or with empty text are skipped.
func (l Layout) Place(texts map[Slot]string) []Field {
	out := make([]Field, 0, len(DrawOrder))
	for _, slot := range DrawOrder {
		pos, ok := l.Fields[slot]
		if !ok {
			continue
		}
		text := texts[slot]
		if text == "" {
			continue
		}
		out = append(out, Field{Text: text, X: pos.X, Y: pos.Y, Size: pos.Size})
	}
	return out
}

// FontValue converts the layout font spec to a Font without data.
func (l Layout) FontValue() Font {
	return Font{Family: l.Font.Family, Style: l.Font.Style, File: l.Font.File}
}

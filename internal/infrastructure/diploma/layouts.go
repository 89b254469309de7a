package diploma

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	domain "github.com/riskibarqy/federation-awards/internal/domain/diploma"
	"gopkg.in/yaml.v3"
)

//go:embed default_layouts.yaml
var defaultLayouts []byte

// LoadLayouts reads a layout set from path, or the embedded defaults when
// path is empty.
func LoadLayouts(path string) (domain.LayoutSet, error) {
	data := defaultLayouts
	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return domain.LayoutSet{}, fmt.Errorf("read diploma layouts %s: %w", p, err)
		}
		data = b
	}
	return ParseLayouts(data)
}

func ParseLayouts(data []byte) (domain.LayoutSet, error) {
	var set domain.LayoutSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return domain.LayoutSet{}, fmt.Errorf("parse diploma layouts: %w", err)
	}
	if err := set.Validate(); err != nil {
		return domain.LayoutSet{}, fmt.Errorf("validate diploma layouts: %w", err)
	}
	return set, nil
}

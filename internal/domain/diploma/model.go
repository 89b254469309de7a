package diploma

import (
	"errors"
	"regexp"
	"strings"

	"github.com/riskibarqy/federation-awards/internal/domain/award"
)

var (
	ErrTemplateUnavailable = errors.New("diploma template unavailable")
	ErrFontUnavailable     = errors.New("diploma font unavailable")
	ErrInvalidTemplate     = errors.New("diploma template is not a usable pdf")
)

// Field is one line of text drawn on a diploma. A nil X centers the text on
// the page. Y is measured from the bottom edge in points.
type Field struct {
	Text string
	X    *float64
	Y    float64
	Size float64
}

// Font selects either a builtin core face (Family + Style) or a TrueType
// file (File, loaded from the template store) registered as Family.
type Font struct {
	Family string
	Style  string
	File   string
	// Data holds the TrueType bytes once loaded; empty for builtin faces.
	Data []byte
}

func (f Font) IsBuiltin() bool {
	return f.File == ""
}

// Request is one fully resolved diploma ready for rendering.
type Request struct {
	CategoryID  int64
	RowIndex    int
	AthleteID   int64
	Placement   award.Placement
	AwardeeName string
	Filename    string
	Fields      []Field
}

// Document is a rendered diploma.
type Document struct {
	Filename string
	Bytes    []byte
}

var unsafeFilename = regexp.MustCompile(`[/\\:*?"<>|]+`)

// FilenamePart replaces spaces with underscores and strips path separators.
func FilenamePart(s string) string {
	s = strings.TrimSpace(s)
	s = unsafeFilename.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "_")
}

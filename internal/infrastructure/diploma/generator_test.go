package diploma

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
	domain "github.com/riskibarqy/federation-awards/internal/domain/diploma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templatePDF(t *testing.T) []byte {
	t.Helper()

	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(40, 40, "Federation Diploma")

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestGenerator_RenderDrawsFields(t *testing.T) {
	t.Parallel()

	gen := &Generator{compress: false}
	left := 72.0
	out, err := gen.Render(templatePDF(t), domain.Font{Family: "Helvetica", Style: "B"}, []domain.Field{
		{Text: "U12 - Male", Y: 170, Size: 16},
		{Text: "U12 Kata", Y: 210, Size: 18},
		{Text: "Ana Pop", Y: 250, Size: 28},
		{Text: "Dragon", X: &left, Y: 130, Size: 14},
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "(Ana Pop) Tj")
	assert.Contains(t, string(out), "(U12 Kata) Tj")
}

func TestGenerator_RejectsBrokenTemplate(t *testing.T) {
	t.Parallel()

	gen := NewGenerator()

	_, err := gen.Render([]byte("not a pdf"), domain.Font{Family: "Helvetica"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)

	_, err = gen.Render(nil, domain.Font{Family: "Helvetica"}, nil)
	assert.ErrorIs(t, err, domain.ErrTemplateUnavailable)

	_, err = gen.Render(templatePDF(t), domain.Font{Family: "Cinzel", File: "cinzel.ttf"}, nil)
	assert.ErrorIs(t, err, domain.ErrFontUnavailable)
}

func TestGenerator_BuiltinFontRejectsCharactersOutsideCP1252(t *testing.T) {
	t.Parallel()

	gen := &Generator{compress: false}
	font := domain.Font{Family: "Helvetica", Style: "B"}

	_, err := gen.Render(templatePDF(t), font, []domain.Field{{Text: "Ștefan Țurcanu", Y: 250, Size: 28}})
	assert.ErrorIs(t, err, domain.ErrFontUnavailable)

	out, err := gen.Render(templatePDF(t), font, []domain.Field{{Text: "José Müller", Y: 250, Size: 28}})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Jos. M.ller")
}

func TestUnencodable(t *testing.T) {
	t.Parallel()

	r, ok := unencodable("Ana Țurcanu")
	assert.True(t, ok)
	assert.Equal(t, 'Ț', r)

	_, ok = unencodable("Zoë – Café €")
	assert.False(t, ok)
}

func TestCenteredX(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 371.945, centeredX(841.89, 98), 0.001)
}

func TestLoadLayouts_EmbeddedDefaults(t *testing.T) {
	t.Parallel()

	set, err := LoadLayouts("")
	require.NoError(t, err)

	l, err := set.ForTier("second")
	require.NoError(t, err)
	assert.Equal(t, "diploma_second.pdf", l.Template)
	assert.Equal(t, 250.0, l.Fields[domain.SlotAwardee].Y)
	assert.Equal(t, 210.0, l.Fields[domain.SlotCategory].Y)
	assert.Equal(t, 170.0, l.Fields[domain.SlotGroupGender].Y)
	assert.Equal(t, 130.0, l.Fields[domain.SlotClub].Y)

	l, err = set.ForTier("default")
	require.NoError(t, err)
	assert.True(t, l.FontValue().IsBuiltin())
}

func TestParseLayouts_RejectsMissingDefault(t *testing.T) {
	t.Parallel()

	_, err := ParseLayouts([]byte("tiers:\n  first:\n    template: a.pdf\n    fields:\n      awardee: {y: 1, size: 2}\n"))
	assert.Error(t, err)
}

package diploma

import (
	"bytes"
	"io"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	domain "github.com/riskibarqy/federation-awards/internal/domain/diploma"
	"golang.org/x/text/encoding/charmap"
)

const mediaBox = "/MediaBox"

// Generator renders diplomas with fpdf, importing page one of the template
// as the background. Every call builds its own document.
type Generator struct {
	compress bool
}

func NewGenerator() *Generator {
	return &Generator{compress: true}
}

// Render draws fields onto the template and returns the PDF bytes.
func (g *Generator) Render(template []byte, font domain.Font, fields []domain.Field) (out []byte, err error) {
	if len(template) == 0 {
		return nil, crerr.Wrap(domain.ErrTemplateUnavailable, "empty template")
	}
	if !font.IsBuiltin() && len(font.Data) == 0 {
		return nil, crerr.Wrapf(domain.ErrFontUnavailable, "font %s has no data", font.File)
	}

	// gofpdi and fpdf font parsing panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = crerr.Wrapf(domain.ErrInvalidTemplate, "render diploma: %v", r)
		}
	}()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(template))
	tplID := importer.ImportPageFromStream(pdf, &rs, 1, mediaBox)

	pageW, pageH, err := templateSize(importer)
	if err != nil {
		return nil, err
	}

	pdf.AddPageFormat("P", fpdf.SizeType{Wd: pageW, Ht: pageH})
	importer.UseImportedTemplate(pdf, tplID, 0, 0, pageW, pageH)

	family, style, translate, err := registerFont(pdf, font)
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		if f.Text == "" {
			continue
		}
		text, err := translate(f.Text)
		if err != nil {
			return nil, err
		}
		pdf.SetFont(family, style, f.Size)

		x := centeredX(pageW, pdf.GetStringWidth(text))
		if f.X != nil {
			x = *f.X
		}
		// Layout y values are measured from the bottom edge.
		pdf.Text(x, pageH-f.Y, text)
	}

	if err := pdf.Error(); err != nil {
		return nil, crerr.Wrap(err, "draw diploma fields")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, crerr.Wrap(err, "write diploma pdf")
	}
	return buf.Bytes(), nil
}

func templateSize(importer *gofpdi.Importer) (float64, float64, error) {
	sizes := importer.GetPageSizes()
	page, ok := sizes[1]
	if !ok {
		return 0, 0, crerr.Wrap(domain.ErrInvalidTemplate, "template has no first page")
	}
	box, ok := page[mediaBox]
	if !ok {
		return 0, 0, crerr.Wrap(domain.ErrInvalidTemplate, "template has no media box")
	}
	w, h := box["w"], box["h"]
	if w <= 0 || h <= 0 {
		return 0, 0, crerr.Wrapf(domain.ErrInvalidTemplate, "template size %.1fx%.1f", w, h)
	}
	return w, h, nil
}

// registerFont registers TrueType data when needed and returns the text
// translator: builtin faces take cp1252, TrueType fonts take UTF-8 as is.
func registerFont(pdf *fpdf.Fpdf, font domain.Font) (string, string, func(string) (string, error), error) {
	family := font.Family
	if family == "" {
		family = "Helvetica"
	}

	if font.IsBuiltin() {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		return family, font.Style, func(s string) (string, error) {
			if r, ok := unencodable(s); ok {
				return "", crerr.Wrapf(domain.ErrFontUnavailable, "font %s cannot draw %q in %q", family, r, s)
			}
			return tr(s), nil
		}, nil
	}

	pdf.AddUTF8FontFromBytes(family, font.Style, font.Data)
	if err := pdf.Error(); err != nil {
		return "", "", nil, crerr.Wrapf(domain.ErrFontUnavailable, "register font %s: %v", font.File, err)
	}
	return family, font.Style, func(s string) (string, error) { return s, nil }, nil
}

// unencodable reports the first rune the builtin cp1252 faces cannot draw.
func unencodable(s string) (rune, bool) {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return r, true
		}
	}
	return 0, false
}

func centeredX(pageWidth, textWidth float64) float64 {
	return (pageWidth - textWidth) / 2
}

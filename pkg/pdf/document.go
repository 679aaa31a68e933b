// Package pdf wraps gofpdf with the cursor, wrapping and pagination
// bookkeeping needed for flowing business documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Text alignment
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Font styles
const (
	StyleRegular   = ""
	StyleBold      = "B"
	StyleItalic    = "I"
	StyleUnderline = "U"
)

const (
	fontFamily = "Helvetica"
	ptToMM     = 25.4 / 72
	// lineSpacing is applied on top of the font size to get the line pitch.
	lineSpacing = 1.2
)

// Options configures a new Document.
type Options struct {
	Margin        float64 // mm on all sides
	FooterReserve float64 // mm kept free at the bottom of each page
	Title         string
	Author        string
	CreatedAt     time.Time
}

// TotalPagesAlias is replaced by the final page count when the document
// is closed, so footers can print "page n of m".
const TotalPagesAlias = "{nb}"

// FooterFunc draws the footer of one page; page is 1-based.
type FooterFunc func(d *Document, page int)

// Document is an A4 portrait page flow with a vertical cursor.
type Document struct {
	pdf           *gofpdf.Fpdf
	tr            func(string) string
	margin        float64
	footerReserve float64
	y             float64
	fontStyle     string
	fontSize      float64
	footer        FooterFunc
}

// New creates a document with one empty page.
func New(opts Options) *Document {
	if opts.Margin <= 0 {
		opts.Margin = 15
	}
	if opts.FooterReserve <= 0 {
		opts.FooterReserve = 30
	}

	f := gofpdf.New("P", "mm", "A4", "")
	f.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	// Page breaks are driven by EnsureSpace, never by gofpdf itself.
	f.SetAutoPageBreak(false, 0)
	f.AliasNbPages(TotalPagesAlias)
	if opts.Title != "" {
		f.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		f.SetAuthor(opts.Author, true)
	}
	if !opts.CreatedAt.IsZero() {
		f.SetCreationDate(opts.CreatedAt)
	}

	d := &Document{
		pdf:           f,
		tr:            f.UnicodeTranslatorFromDescriptor(""),
		margin:        opts.Margin,
		footerReserve: opts.FooterReserve,
	}
	f.SetFooterFunc(func() {
		if d.footer != nil {
			d.footer(d, f.PageNo())
		}
	})
	d.SetFont(StyleRegular, 10)
	d.AddPage()
	return d
}

// SetFooter registers the function drawn at the bottom of every page.
func (d *Document) SetFooter(fn FooterFunc) {
	d.footer = fn
}

// AddPage starts a new page and moves the cursor to the top margin.
func (d *Document) AddPage() {
	style, size := d.fontStyle, d.fontSize
	d.pdf.AddPage()
	d.SetFont(style, size)
	d.y = d.margin
}

// PageWidth returns the page width in mm.
func (d *Document) PageWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w
}

// PageHeight returns the page height in mm.
func (d *Document) PageHeight() float64 {
	_, h := d.pdf.GetPageSize()
	return h
}

// Margin returns the page margin in mm.
func (d *Document) Margin() float64 { return d.margin }

// ContentWidth is the usable width between the left and right margin.
func (d *Document) ContentWidth() float64 {
	return d.PageWidth() - 2*d.margin
}

// Y returns the cursor position.
func (d *Document) Y() float64 { return d.y }

// SetY moves the cursor.
func (d *Document) SetY(y float64) { d.y = y }

// Advance moves the cursor down by h mm.
func (d *Document) Advance(h float64) { d.y += h }

// PageCount returns the number of pages started so far.
func (d *Document) PageCount() int { return d.pdf.PageCount() }

// Bottom is the lowest y a block may reach. The footer area and the bottom
// margin lie below it.
func (d *Document) Bottom() float64 {
	return d.PageHeight() - d.footerReserve - d.margin
}

// EnsureSpace starts a new page when a block of the given height would run
// into the footer area. It reports whether a page was added.
func (d *Document) EnsureSpace(required float64) bool {
	if d.y+required > d.Bottom() {
		d.AddPage()
		return true
	}
	return false
}

// SetFont selects Helvetica in the given style and point size.
func (d *Document) SetFont(style string, size float64) {
	if size <= 0 {
		size = 10
	}
	d.fontStyle, d.fontSize = style, size
	d.pdf.SetFont(fontFamily, style, size)
}

// FontSize returns the current font size in points.
func (d *Document) FontSize() float64 { return d.fontSize }

// LineHeight returns the line pitch in mm for a font size in points.
func LineHeight(size float64) float64 {
	return size * ptToMM * lineSpacing
}

// StringWidth measures s in the current font.
func (d *Document) StringWidth(s string) float64 {
	return d.pdf.GetStringWidth(d.tr(s))
}

// WrapText splits text into lines no wider than width using the current
// font. Words are packed greedily; a single word wider than the line is
// broken by character. Explicit newlines are kept.
func (d *Document) WrapText(text string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			for d.StringWidth(word) > width {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				head, tail := d.splitWord(word, width)
				lines = append(lines, head)
				word = tail
			}
			if word == "" {
				continue
			}

			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if d.StringWidth(candidate) <= width {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// splitWord returns the longest prefix of word that fits width and the rest.
func (d *Document) splitWord(word string, width float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && d.StringWidth(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// Text draws a single line at (x, y) inside a box of the given width.
// y is the top of the line.
func (d *Document) Text(x, y, width float64, s, align string) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(width, LineHeight(d.fontSize), d.tr(s), "", 0, align, false, 0, "")
}

// Lines draws pre-wrapped lines starting at (x, y) and returns the height used.
func (d *Document) Lines(x, y, width float64, lines []string, align string) float64 {
	lh := LineHeight(d.fontSize)
	for i, line := range lines {
		d.Text(x, y+float64(i)*lh, width, line, align)
	}
	return float64(len(lines)) * lh
}

// Paragraph wraps text to width, draws it at the cursor and advances it.
func (d *Document) Paragraph(x, width float64, text, align string) float64 {
	lines := d.WrapText(text, width)
	h := d.Lines(x, d.y, width, lines, align)
	d.y += h
	return h
}

// Line draws a rule from (x1, y1) to (x2, y2).
func (d *Document) Line(x1, y1, x2, y2, width float64) {
	d.pdf.SetLineWidth(width)
	d.pdf.Line(x1, y1, x2, y2)
}

// FillRect paints a grey rectangle used for table headers.
func (d *Document) FillRect(x, y, w, h float64, grey int) {
	d.pdf.SetFillColor(grey, grey, grey)
	d.pdf.Rect(x, y, w, h, "F")
}

// Err returns the first error gofpdf recorded.
func (d *Document) Err() error {
	return d.pdf.Error()
}

// Output closes the document and returns the PDF bytes. Nothing is
// returned if any drawing step failed.
func (d *Document) Output() ([]byte, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}

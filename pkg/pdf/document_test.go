package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText(t *testing.T) {
	d := New(Options{})
	d.SetFont(StyleRegular, 8)

	t.Run("short text stays on one line", func(t *testing.T) {
		lines := d.WrapText("Halteverbotszone", 100)
		assert.Equal(t, []string{"Halteverbotszone"}, lines)
	})

	t.Run("long text wraps within width", func(t *testing.T) {
		text := strings.Repeat("Umzugskartons bereitstellen ", 12)
		lines := d.WrapText(text, 60)
		require.Greater(t, len(lines), 1)
		for _, line := range lines {
			assert.LessOrEqual(t, d.StringWidth(line), 60.0)
		}
		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
	})

	t.Run("overlong word is broken", func(t *testing.T) {
		word := strings.Repeat("x", 300)
		lines := d.WrapText(word, 30)
		require.Greater(t, len(lines), 1)
		assert.Equal(t, word, strings.Join(lines, ""))
	})

	t.Run("explicit newlines are kept", func(t *testing.T) {
		lines := d.WrapText("a\nb", 100)
		assert.Equal(t, []string{"a", "b"}, lines)
	})
}

func TestEnsureSpaceAddsPage(t *testing.T) {
	d := New(Options{Margin: 15, FooterReserve: 30})
	require.Equal(t, 1, d.PageCount())

	assert.False(t, d.EnsureSpace(10))
	d.SetY(d.Bottom() - 5)
	assert.True(t, d.EnsureSpace(10))
	assert.Equal(t, 2, d.PageCount())
	assert.Equal(t, 15.0, d.Y())
}

func TestEnsureSpaceKeepsBottomMargin(t *testing.T) {
	d := New(Options{Margin: 15, FooterReserve: 30})
	limit := d.PageHeight() - 30 - 15
	assert.InDelta(t, limit, d.Bottom(), 0.001)

	d.SetY(limit - 10)
	assert.False(t, d.EnsureSpace(10))
	assert.Equal(t, 1, d.PageCount())

	d.SetY(limit - 5)
	assert.True(t, d.EnsureSpace(10))
	assert.Equal(t, 2, d.PageCount())
}

func TestOutputWithFooter(t *testing.T) {
	d := New(Options{Title: "Angebot"})
	var pages []int
	d.SetFooter(func(doc *Document, page int) {
		pages = append(pages, page)
		doc.SetFont(StyleRegular, 7)
		doc.Text(doc.Margin(), doc.PageHeight()-10, doc.ContentWidth(), "Seite "+TotalPagesAlias, AlignCenter)
	})
	d.Paragraph(d.Margin(), d.ContentWidth(), "Gesamtbetrag brutto 1.194,76 €", AlignLeft)
	d.AddPage()

	out, err := d.Output()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
	assert.Equal(t, []int{1, 2}, pages)
}

func TestLineHeight(t *testing.T) {
	assert.InDelta(t, 4.233, LineHeight(10), 0.001)
}

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/justyntemme/booksearch-t/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate_Hidden(t *testing.T) {
	for _, total := range []int{0, 1} {
		p := Paginate(1, total)
		assert.True(t, p.Hidden)
		assert.Empty(t, p.Items)
	}
}

func TestPaginate_Window(t *testing.T) {
	tests := []struct {
		current, total int
		want           []string
	}{
		{1, 2, []string{"← Previous", "1", "2", "Next →"}},
		{1, 10, []string{"← Previous", "1", "2", "3", "…", "10", "Next →"}},
		{5, 10, []string{"← Previous", "1", "…", "3", "4", "5", "6", "7", "…", "10", "Next →"}},
		{10, 10, []string{"← Previous", "1", "…", "8", "9", "10", "Next →"}},
		{4, 10, []string{"← Previous", "1", "2", "3", "4", "5", "6", "…", "10", "Next →"}},
		{7, 10, []string{"← Previous", "1", "…", "5", "6", "7", "8", "9", "10", "Next →"}},
		{3, 5, []string{"← Previous", "1", "2", "3", "4", "5", "Next →"}},
	}

	for _, tt := range tests {
		p := Paginate(tt.current, tt.total)
		var labels []string
		for _, it := range p.Items {
			labels = append(labels, it.Label)
		}
		assert.Equal(t, tt.want, labels, "current=%d total=%d", tt.current, tt.total)
	}
}

func TestPaginate_Properties(t *testing.T) {
	for total := 2; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			p := Paginate(current, total)
			require.False(t, p.Hidden)

			pages := p.Pages()
			assert.Equal(t, 1, pages[0])
			assert.Equal(t, total, pages[len(pages)-1])

			for i := 1; i < len(pages); i++ {
				assert.Greater(t, pages[i], pages[i-1])
			}
			for pg := max(1, current-WindowRadius); pg <= min(total, current+WindowRadius); pg++ {
				assert.Contains(t, pages, pg)
			}

			active := 0
			for _, it := range p.Items {
				if it.Active {
					active++
					assert.Equal(t, current, it.Page)
				}
			}
			assert.Equal(t, 1, active)

			prev, _ := p.Item(ItemPrev)
			next, _ := p.Item(ItemNext)
			assert.Equal(t, current == 1, prev.Disabled)
			assert.Equal(t, current == total, next.Disabled)
		}
	}
}

func TestJoinResults(t *testing.T) {
	books := []models.Book{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	results := []models.SearchResult{
		{Book: models.Book{ID: 1}, Occurrences: 3},
		{Book: models.Book{ID: 9}, Occurrences: 7},
	}

	hits := JoinResults(books, results)
	require.Len(t, hits, 2)
	assert.Equal(t, 3, hits[0].Occurrences)
	assert.True(t, hits[0].Matched)
	assert.Equal(t, 0, hits[1].Occurrences)
	assert.False(t, hits[1].Matched)
}

func TestResultsGrid_Badges(t *testing.T) {
	f := NewFormatter("en-US")
	g := ResultsGrid(f, ResultsPage{
		TotalCount: 2, Page: 1, TotalPages: 1,
		Books: []models.Book{
			{ID: 1, Title: "Moby Dick", Author: "Melville", WordCount: 212000},
			{ID: 2, Title: "Typee", Author: "Melville", WordCount: 100},
		},
		Results: []models.SearchResult{
			{Book: models.Book{ID: 1}, Occurrences: 3},
			{Book: models.Book{ID: 2}, Occurrences: 0},
		},
	})

	require.Len(t, g.Cards, 2)
	assert.Equal(t, "Found 2 books - Page 1 of 1", g.Summary)
	assert.Equal(t, "3 matches", g.Cards[0].Matches)
	assert.Equal(t, "212,000 words", g.Cards[0].Words)
	assert.Equal(t, "ID: 1", g.Cards[0].IDLabel)
	assert.Empty(t, g.Cards[1].Matches)
	assert.Empty(t, g.Placeholder)
}

func TestResultsGrid_Placeholder(t *testing.T) {
	g := ResultsGrid(NewFormatter("en-US"), ResultsPage{Page: 1})
	assert.True(t, g.Empty())
	assert.Equal(t, NoResults, g.Placeholder)
	assert.Equal(t, "Found 0 books - Page 1 of 1", g.Summary)
}

func TestRecommendationsGrid(t *testing.T) {
	f := NewFormatter("en-US")

	g := RecommendationsGrid(f, nil)
	assert.Equal(t, NoRecommendations, g.Placeholder)

	g = RecommendationsGrid(f, []models.Book{{ID: 4, Title: "Omoo"}})
	require.Len(t, g.Cards, 1)
	assert.Empty(t, g.Placeholder)
	assert.Equal(t, "Unknown", g.Cards[0].Author.String())
	assert.Empty(t, g.Cards[0].Words)
}

func TestPlain_StripsControlSequences(t *testing.T) {
	assert.Equal(t, "red title", Plain("\x1b[31mred\x1b[0m\ttitle\n").String())
	assert.Equal(t, "bell", Plain("be\x07ll").String())
	assert.True(t, Plain(" \n ").Empty())
	assert.Equal(t, "Untitled", Plain("").Or("Untitled").String())
}

func TestParagraphs_KeepsBreaks(t *testing.T) {
	ps := Paragraphs("one\r\n\r\ntwo \x1b[1mthree\x1b[0m")
	require.Len(t, ps, 3)
	assert.Equal(t, "one", ps[0].String())
	assert.True(t, ps[1].Empty())
	assert.Equal(t, "two three", ps[2].String())
}

func TestWriteResultsHTML_EscapesText(t *testing.T) {
	g := ResultsGrid(NewFormatter("en-US"), ResultsPage{
		TotalCount: 1, Page: 1, TotalPages: 1,
		Books: []models.Book{{ID: 1, Title: "<script>alert(1)</script>", Author: `"Bob" & co`}},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteResultsHTML(&buf, g, Paginate(1, 1)))
	out := buf.String()

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, out, "&amp; co")
	assert.Contains(t, out, `data-book-id="1"`)
	assert.NotContains(t, out, "occurrences-badge")
}

func TestWriteResultsHTML_Pagination(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultsHTML(&buf, Grid{Placeholder: NoResults}, Paginate(1, 3)))
	out := buf.String()

	assert.Contains(t, out, NoResults)
	assert.Contains(t, out, `class="pagination-btn active" data-page="1"`)
	assert.Contains(t, out, "disabled")
}

func TestDetail(t *testing.T) {
	var d models.BookDetail
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 7, "title": "Moby Dick", "author": "Herman Melville",
		"word_count": 212000, "release_year": 1851, "language": "en"
	}`), &d))

	p := Detail(NewFormatter("en-US"), d)
	assert.Equal(t, "Moby Dick", p.Title.String())

	var labels, values []string
	for _, f := range p.Fields {
		labels = append(labels, f.Label)
		values = append(values, f.Value.String())
	}
	assert.Equal(t, []string{"Author", "Book ID", "Word Count", "Language", "Release Year"}, labels)
	assert.Equal(t, []string{"Herman Melville", "7", "212,000", "en", "1851"}, values)

	var buf bytes.Buffer
	require.NoError(t, WriteDetailHTML(&buf, p, RecommendationsGrid(NewFormatter("en-US"), nil)))
	assert.Contains(t, buf.String(), NoRecommendations)
	assert.Contains(t, buf.String(), "<strong>Author:</strong> Herman Melville")
}

func TestFormatter_Locale(t *testing.T) {
	assert.Equal(t, "1,234,567", NewFormatter("en-US").Int(1234567))
	assert.Equal(t, "1.234.567", NewFormatter("de-DE").Int(1234567))
	assert.Equal(t, "1,234,567", NewFormatter("not a locale!").Int(1234567))
	assert.Equal(t, "1,234", Formatter{}.Int(1234))
	assert.Equal(t, "1,234.50", Formatter{}.Relevance(1234.5))
}

func TestReader_WidthScalesWithFont(t *testing.T) {
	assert.Equal(t, 76, ReaderWidth(80, 12))
	assert.Equal(t, 57, ReaderWidth(80, 16))
	assert.Equal(t, 57, ReaderWidth(80, 0))
	assert.Equal(t, 20, ReaderWidth(24, 24))

	// Every font step changes the column, the smallest size using it all
	prev := ReaderWidth(100, 12)
	assert.Equal(t, 96, prev)
	for fs := 14; fs <= 24; fs += 2 {
		w := ReaderWidth(100, fs)
		assert.Less(t, w, prev, "font size %d", fs)
		prev = w
	}

	p := Reader("Call me Ishmael. Some years ago, never mind how long precisely.", 24, true, 40)
	assert.True(t, p.Light)
	for _, line := range p.Lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), p.Width)
	}
	assert.Equal(t, "Call me Ishmael.", p.Lines[0])
}

func TestWrapParagraphs_CountsCells(t *testing.T) {
	lines := WrapParagraphs(Paragraphs("é é é é é é é é é é"), 10)
	require.Len(t, lines, 2)
	assert.Equal(t, "é é é é é", lines[0])
	assert.Equal(t, "é é é é é", lines[1])

	// Wide runes take two cells each
	lines = WrapParagraphs(Paragraphs("白鯨 白鯨 白鯨"), 10)
	assert.Equal(t, []string{"白鯨 白鯨", "白鯨"}, lines)
}

func TestWrapParagraphs_SplitsLongWords(t *testing.T) {
	word := strings.Repeat("abcdefghij", 4) + "klmnop"
	lines := WrapParagraphs(Paragraphs("see "+word+" end"), 20)

	for _, line := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), 20, "line %q", line)
	}
	assert.Equal(t, "see", lines[0])
	assert.Equal(t, word+" end", strings.Join(lines[1:], ""))
}

func TestWrapParagraphs_KeepsBlankLines(t *testing.T) {
	lines := WrapParagraphs(Paragraphs("one\n\ntwo"), 20)
	assert.Equal(t, []string{"one", "", "two"}, lines)
}

func TestFieldLabel_MultiByteRunes(t *testing.T) {
	label := fieldLabel("édition_année")
	assert.True(t, utf8.ValidString(label))
	assert.Equal(t, "Édition Année", label)
	assert.Equal(t, "Release Year", fieldLabel("release-year"))
}

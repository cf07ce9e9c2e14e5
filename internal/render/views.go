// Package render maps API data and view state to view models. Everything
// here is pure: the same input always yields the same output, and every
// piece of user text is carried as a sanitized Text.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/justyntemme/booksearch-t/internal/config"
	"github.com/justyntemme/booksearch-t/pkg/models"
)

// Placeholders shown instead of an empty grid
const (
	NoResults         = "No books found"
	NoRecommendations = "No recommendations available"
)

// Hit is a page book joined with its match statistics
type Hit struct {
	Book        models.Book
	Occurrences int
	Relevance   float64
	Matched     bool
}

// JoinResults joins the books of a result page with the full result set
// on book id. Order follows books. A book with no entry in results gets
// zero occurrences; results without a book on the page are dropped.
func JoinResults(books []models.Book, results []models.SearchResult) []Hit {
	byID := make(map[int]models.SearchResult, len(results))
	for _, r := range results {
		if _, dup := byID[r.Book.ID]; !dup {
			byID[r.Book.ID] = r
		}
	}

	hits := make([]Hit, len(books))
	for i, b := range books {
		hits[i] = Hit{Book: b}
		if r, ok := byID[b.ID]; ok {
			hits[i].Occurrences = r.Occurrences
			hits[i].Relevance = r.Relevance
			hits[i].Matched = true
		}
	}
	return hits
}

// Card is a book tile in a results or recommendations grid
type Card struct {
	ID      int
	Title   Text
	Author  Text
	IDLabel string
	Words   string // empty when the word count is not shown
	Matches string // empty when there is no matches badge
}

// Grid is a list of cards with an optional summary line. Placeholder is
// set exactly when there are no cards.
type Grid struct {
	Summary     string
	Cards       []Card
	Placeholder string
}

// Empty reports whether the grid shows its placeholder
func (g Grid) Empty() bool {
	return len(g.Cards) == 0
}

// ResultsPage is the input to ResultsGrid
type ResultsPage struct {
	TotalCount int
	Page       int
	TotalPages int
	Books      []models.Book
	Results    []models.SearchResult
}

// ResultsGrid renders a search result page
func ResultsGrid(f Formatter, p ResultsPage) Grid {
	g := Grid{
		Summary: fmt.Sprintf("Found %s books - Page %d of %d",
			f.Int(p.TotalCount), p.Page, max(1, p.TotalPages)),
	}

	for _, h := range JoinResults(p.Books, p.Results) {
		c := Card{
			ID:      h.Book.ID,
			Title:   Plain(h.Book.Title).Or("Untitled"),
			Author:  Plain(h.Book.Author).Or("Unknown"),
			IDLabel: "ID: " + strconv.Itoa(h.Book.ID),
			Words:   f.Int(h.Book.WordCount) + " words",
		}
		if h.Occurrences > 0 {
			c.Matches = f.Int(h.Occurrences) + " matches"
		}
		g.Cards = append(g.Cards, c)
	}

	if g.Empty() {
		g.Placeholder = NoResults
	}
	return g
}

// RecommendationsGrid renders the recommendations of a book
func RecommendationsGrid(f Formatter, recs []models.Book) Grid {
	var g Grid
	for _, b := range recs {
		g.Cards = append(g.Cards, Card{
			ID:      b.ID,
			Title:   Plain(b.Title).Or("Untitled"),
			Author:  Plain(b.Author).Or("Unknown"),
			IDLabel: "ID: " + strconv.Itoa(b.ID),
		})
	}
	if g.Empty() {
		g.Placeholder = NoRecommendations
	}
	return g
}

// Field is a labelled value in the detail panel
type Field struct {
	Label string
	Value Text
}

// DetailPanel is the book detail view model
type DetailPanel struct {
	ID     int
	Title  Text
	Fields []Field
}

// Detail renders a book's detail panel. Fields the client does not know
// are appended in key order.
func Detail(f Formatter, d models.BookDetail) DetailPanel {
	p := DetailPanel{
		ID:    d.ID,
		Title: Plain(d.Title).Or("Untitled"),
		Fields: []Field{
			{Label: "Author", Value: Plain(d.Author).Or("Unknown")},
			{Label: "Book ID", Value: Plain(strconv.Itoa(d.ID))},
			{Label: "Word Count", Value: Plain(f.Int(d.WordCount))},
		},
	}

	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Fields = append(p.Fields, Field{
			Label: fieldLabel(k),
			Value: Plain(rawValue(d.Extra[k])),
		})
	}
	return p
}

// fieldLabel turns a JSON key like "release_year" into "Release Year"
func fieldLabel(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// rawValue shows strings without quotes and anything else as compact JSON
func rawValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ReaderPanel is the reader view model
type ReaderPanel struct {
	Lines    []string
	FontSize int
	Light    bool
	Width    int
}

// Reader wraps content for display. Larger font sizes narrow the text
// column, the terminal stand-in for bigger glyphs.
func Reader(content string, fontSize int, light bool, width int) ReaderPanel {
	wrap := ReaderWidth(width, fontSize)
	return ReaderPanel{
		Lines:    WrapParagraphs(Paragraphs(content), wrap),
		FontSize: fontSize,
		Light:    light,
		Width:    wrap,
	}
}

// ReaderWidth returns the text column width for a terminal width and font
// size. The smallest font size gets the full width and every step up narrows
// the column.
func ReaderWidth(width, fontSize int) int {
	if fontSize <= 0 {
		fontSize = config.DefaultFontSize
	}
	base := width - 4 // padding
	scaled := base * config.MinFontSize / fontSize
	if scaled < 20 {
		scaled = 20 // minimum readable width
	}
	if scaled > base {
		scaled = base
	}
	return max(scaled, 1)
}

// WrapParagraphs word-wraps each paragraph to maxWidth terminal cells.
// Words wider than the column are split across lines.
func WrapParagraphs(paragraphs []Text, maxWidth int) []string {
	maxWidth = max(maxWidth, 1)

	var lines []string
	for _, paragraph := range paragraphs {
		words := strings.Fields(paragraph.String())
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var currentLine strings.Builder
		lineWidth := 0
		flush := func() {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
				lineWidth = 0
			}
		}

		for _, word := range words {
			w := ansi.StringWidth(word)
			switch {
			case w > maxWidth:
				flush()
				pieces := strings.Split(ansi.Hardwrap(word, maxWidth, true), "\n")
				lines = append(lines, pieces[:len(pieces)-1]...)
				currentLine.WriteString(pieces[len(pieces)-1])
				lineWidth = ansi.StringWidth(pieces[len(pieces)-1])
			case lineWidth == 0:
				currentLine.WriteString(word)
				lineWidth = w
			case lineWidth+1+w <= maxWidth:
				currentLine.WriteString(" ")
				currentLine.WriteString(word)
				lineWidth += 1 + w
			default:
				flush()
				currentLine.WriteString(word)
				lineWidth = w
			}
		}
		flush()
	}
	return lines
}

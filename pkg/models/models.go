package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SearchMode selects how the server interprets a query
type SearchMode string

// Search modes understood by the search endpoint
const (
	SearchKeyword SearchMode = "keyword"
	SearchRegex   SearchMode = "regex"
)

// ParseSearchMode parses a mode name, case-insensitively
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(s))) {
	case SearchKeyword, "":
		return SearchKeyword, nil
	case SearchRegex:
		return SearchRegex, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

// Label returns the display name of the mode
func (m SearchMode) Label() string {
	if m == SearchRegex {
		return "Regex"
	}
	return "Keyword"
}

// Toggle returns the other search mode
func (m SearchMode) Toggle() SearchMode {
	if m == SearchRegex {
		return SearchKeyword
	}
	return SearchRegex
}

// Book is the summary of a book as returned in result lists
type Book struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	WordCount int    `json:"word_count"`
}

// BookDetail is a book as returned by the detail endpoint. Fields the
// client does not know about are kept in Extra.
type BookDetail struct {
	Book
	FilePath string                     `json:"file_path,omitempty"`
	Extra    map[string]json.RawMessage `json:"-"`
}

var knownDetailFields = map[string]bool{
	"id":         true,
	"title":      true,
	"author":     true,
	"word_count": true,
	"file_path":  true,
}

// UnmarshalJSON decodes the known fields and collects the rest into Extra
func (d *BookDetail) UnmarshalJSON(data []byte) error {
	type plain BookDetail
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, v := range all {
		if knownDetailFields[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}

	*d = BookDetail(p)
	return nil
}

// SearchResult pairs a book with its server-computed match statistics
type SearchResult struct {
	Book        Book    `json:"book"`
	Occurrences int     `json:"occurrences"`
	Relevance   float64 `json:"relevance"`
}

// SearchResponse is the paginated search endpoint payload. Results holds the
// full ranked result set, Books only the requested page.
type SearchResponse struct {
	Results    []SearchResult `json:"results"`
	Books      []Book         `json:"books"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page,omitempty"`
	TotalPages int            `json:"total_pages"`
}

// RegexSearchResponse is the legacy regex endpoint payload
type RegexSearchResponse struct {
	Results []SearchResult `json:"results"`
}

// ContentResponse is the book content payload. Content is a pointer so that
// a missing field can be told apart from an empty one.
type ContentResponse struct {
	BookID  int     `json:"book_id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Author  string  `json:"author,omitempty"`
	Content *string `json:"content"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error string `json:"error"`
}

// Package state holds the client's view state: the active view, the search
// page, the selected book and the reader settings. A single State is owned
// by the UI controller, which is its only writer.
package state

import (
	"errors"
	"strings"

	"github.com/justyntemme/booksearch-t/internal/config"
	"github.com/justyntemme/booksearch-t/pkg/models"
)

var (
	// ErrEmptyQuery is returned when a search is requested without a query
	ErrEmptyQuery = errors.New("please enter a search query")
	// ErrNoBook is returned when the reader is requested with no book selected
	ErrNoBook = errors.New("no book selected")
)

// View is the active screen
type View int

const (
	ViewHome View = iota
	ViewBook
	ViewReader
)

// String returns the name of the view
func (v View) String() string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewBook:
		return "Book"
	case ViewReader:
		return "Reader"
	default:
		return "Unknown"
	}
}

// PageState describes the last resolved search. Before the first search
// Page and TotalPages are placeholders set to 1.
type PageState struct {
	Query      string
	Page       int
	TotalPages int
	TotalCount int
	Mode       models.SearchMode
}

// ReaderState holds the reader presentation settings
type ReaderState struct {
	FontSize int
	Light    bool
}

// SearchRequest is an issued search awaiting its response
type SearchRequest struct {
	Seq   uint64
	Query string
	Mode  models.SearchMode
	Page  int
}

// State is the process-wide view state
type State struct {
	view View

	page     PageState
	results  []models.SearchResult
	books    []models.Book
	searched bool

	bookID          int
	hasBook         bool
	detail          *models.BookDetail
	recommendations []models.Book
	content         string

	reader ReaderState

	searchSeq  uint64
	bookSeq    uint64
	contentSeq uint64

	searching      bool
	loadingBook    bool
	loadingContent bool

	notice string
}

// New creates the initial state
func New(mode models.SearchMode, fontSize int) *State {
	if mode == "" {
		mode = models.SearchKeyword
	}
	return &State{
		view: ViewHome,
		page: PageState{
			Page:       1,
			TotalPages: 1,
			Mode:       mode,
		},
		reader: ReaderState{FontSize: config.ClampFontSize(fontSize)},
	}
}

// View returns the active view
func (s *State) View() View { return s.view }

// Page returns the pagination state
func (s *State) Page() PageState { return s.page }

// Searched reports whether any search has resolved
func (s *State) Searched() bool { return s.searched }

// Results returns the full result set of the last resolved search
func (s *State) Results() []models.SearchResult { return s.results }

// Books returns the books on the current result page
func (s *State) Books() []models.Book { return s.books }

// BookID returns the selected book, if any
func (s *State) BookID() (int, bool) { return s.bookID, s.hasBook }

// Detail returns the loaded detail of the selected book
func (s *State) Detail() *models.BookDetail { return s.detail }

// Recommendations returns the recommendations of the selected book
func (s *State) Recommendations() []models.Book { return s.recommendations }

// Content returns the text shown in the reader
func (s *State) Content() string { return s.content }

// Reader returns the reader settings
func (s *State) Reader() ReaderState { return s.reader }

// Searching reports whether a search is in flight
func (s *State) Searching() bool { return s.searching }

// LoadingBook reports whether the book view is waiting on data
func (s *State) LoadingBook() bool { return s.loadingBook }

// LoadingContent reports whether the reader is waiting on content
func (s *State) LoadingContent() bool { return s.loadingContent }

// Loading reports whether anything the active view shows is in flight
func (s *State) Loading() bool {
	switch s.view {
	case ViewBook:
		return s.loadingBook
	case ViewReader:
		return s.loadingContent
	default:
		return s.searching
	}
}

// Notice returns the pending user notification
func (s *State) Notice() string { return s.notice }

// Notify sets the user notification
func (s *State) Notify(msg string) { s.notice = msg }

// DismissNotice clears the user notification
func (s *State) DismissNotice() { s.notice = "" }

// SetMode selects the search mode for subsequent searches
func (s *State) SetMode(mode models.SearchMode) {
	s.page.Mode = mode
}

// BeginSearch validates query and registers a new search request. Any
// response to an earlier request becomes stale.
func (s *State) BeginSearch(query string, page int) (SearchRequest, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchRequest{}, ErrEmptyQuery
	}
	s.searchSeq++
	s.searching = true
	return SearchRequest{
		Seq:   s.searchSeq,
		Query: query,
		Mode:  s.page.Mode,
		Page:  max(1, page),
	}, nil
}

// ApplySearch commits a search response. It returns false and changes
// nothing when req is not the latest request.
func (s *State) ApplySearch(req SearchRequest, resp *models.SearchResponse) bool {
	if req.Seq != s.searchSeq {
		return false
	}
	s.searching = false
	s.searched = true

	total := max(1, resp.TotalPages)
	page := resp.Page
	if page == 0 {
		page = req.Page
	}

	s.page.Query = req.Query
	s.page.Mode = req.Mode
	s.page.TotalPages = total
	s.page.Page = max(1, min(total, page))
	s.page.TotalCount = resp.TotalCount
	s.results = resp.Results
	s.books = resp.Books
	return true
}

// FailSearch ends a failed search, leaving the committed page untouched.
// It returns false when req is stale.
func (s *State) FailSearch(req SearchRequest) bool {
	if req.Seq != s.searchSeq {
		return false
	}
	s.searching = false
	return true
}

// SelectBook enters the book view for id and returns the load sequence
func (s *State) SelectBook(id int) uint64 {
	s.view = ViewBook
	s.bookID = id
	s.hasBook = true
	s.detail = nil
	s.recommendations = nil
	s.loadingBook = true
	s.bookSeq++
	return s.bookSeq
}

// ApplyBook stores the loaded detail and recommendations. Stale loads are
// ignored.
func (s *State) ApplyBook(seq uint64, detail *models.BookDetail, recs []models.Book) bool {
	if seq != s.bookSeq || s.view != ViewBook {
		return false
	}
	s.loadingBook = false
	s.detail = detail
	s.recommendations = recs
	return true
}

// FailBook abandons the book transition and returns to Home
func (s *State) FailBook(seq uint64) bool {
	if seq != s.bookSeq || s.view != ViewBook {
		return false
	}
	s.loadingBook = false
	s.view = ViewHome
	return true
}

// OpenReader enters the reader for the selected book. The reader theme
// resets on every entry; the font size is kept.
func (s *State) OpenReader() (id int, seq uint64, err error) {
	if !s.hasBook {
		return 0, 0, ErrNoBook
	}
	s.view = ViewReader
	s.content = ""
	s.reader.Light = false
	s.loadingContent = true
	s.contentSeq++
	return s.bookID, s.contentSeq, nil
}

// ApplyContent stores loaded content. Stale loads are ignored.
func (s *State) ApplyContent(seq uint64, content string) bool {
	if seq != s.contentSeq || s.view != ViewReader {
		return false
	}
	s.loadingContent = false
	s.content = content
	return true
}

// FailContent handles a content load failure. When the failure is current
// and a book is selected it returns that book's id so the caller can fall
// back to its detail view.
func (s *State) FailContent(seq uint64) (id int, fallback bool) {
	if seq != s.contentSeq || s.view != ViewReader {
		return 0, false
	}
	s.loadingContent = false
	if !s.hasBook {
		s.view = ViewHome
		return 0, false
	}
	return s.bookID, true
}

// CloseReader leaves the reader for the selected book's detail view, or
// Home when no book is selected. refetch is true when the detail has to be
// loaded again before it can be shown.
func (s *State) CloseReader() (id int, refetch bool) {
	s.contentSeq++
	s.loadingContent = false
	s.content = ""
	if !s.hasBook {
		s.view = ViewHome
		return 0, false
	}
	if s.detail != nil && s.detail.ID == s.bookID {
		s.view = ViewBook
		return s.bookID, false
	}
	return s.bookID, true
}

// GoHome switches to the home view and drops pending book and content loads
func (s *State) GoHome() {
	s.view = ViewHome
	s.bookSeq++
	s.contentSeq++
	s.loadingBook = false
	s.loadingContent = false
}

// ChangeFontSize adjusts the reader font size within its allowed range
func (s *State) ChangeFontSize(delta int) int {
	// Bound delta first so huge values cannot overflow.
	delta = max(-config.MaxFontSize, min(config.MaxFontSize, delta))
	s.reader.FontSize = config.ClampFontSize(s.reader.FontSize + delta)
	return s.reader.FontSize
}

// ToggleTheme flips the reader between dark and light
func (s *State) ToggleTheme() bool {
	s.reader.Light = !s.reader.Light
	return s.reader.Light
}

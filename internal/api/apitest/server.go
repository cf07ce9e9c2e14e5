// Package apitest provides an in-process fake of the book search API.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/justyntemme/booksearch-t/pkg/models"
)

// SearchFunc answers a search request. A non-zero status is written as an
// error response instead of resp.
type SearchFunc func(query, mode string, page int) (resp models.SearchResponse, status int)

// Server is a fake API backed by in-memory fixtures. Fixtures may be
// changed between requests.
type Server struct {
	*httptest.Server

	mu              sync.Mutex
	books           map[int]models.BookDetail
	recommendations map[int][]models.Book
	content         map[int]string
	failing         map[string]int
	search          SearchFunc
	legacy          []models.SearchResult
	calls           map[string]int
	requestIDs      []string
}

// NewServer starts a fake API. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		books:           make(map[int]models.BookDetail),
		recommendations: make(map[int][]models.Book),
		content:         make(map[int]string),
		failing:         make(map[string]int),
		calls:           make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/search/regex", s.handleRegexSearch)
	r.Get("/api/book/{id}", s.handleBook)
	r.Get("/api/recommendations/{id}", s.handleRecommendations)
	r.Get("/api/content/{id}", s.handleContent)

	s.Server = httptest.NewServer(r)
	return s
}

// AddBook registers a book with its recommendations and content.
// Empty content makes the content endpoint answer 404.
func (s *Server) AddBook(b models.BookDetail, recs []models.Book, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ID] = b
	s.recommendations[b.ID] = recs
	if content != "" {
		s.content[b.ID] = content
	}
}

// SetSearch installs the search handler
func (s *Server) SetSearch(fn SearchFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = fn
}

// SetLegacyResults sets what the legacy regex endpoint returns
func (s *Server) SetLegacyResults(results []models.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacy = results
}

// Fail makes every request whose path equals path answer with status.
// A status of 0 clears the failure.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failing, path)
		return
	}
	s.failing[path] = status
}

// Calls returns how many requests hit path
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// RequestIDs returns the X-Request-ID headers seen so far
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		status := s.failing[r.URL.Path]
		s.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, models.ErrorResponse{Error: http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	s.mu.Lock()
	fn := s.search
	s.mu.Unlock()

	if fn == nil {
		writeJSON(w, http.StatusOK, models.SearchResponse{
			Results:    []models.SearchResult{},
			Books:      []models.Book{},
			Page:       page,
			TotalPages: 0,
		})
		return
	}

	resp, status := fn(q.Get("q"), q.Get("type"), page)
	if status != 0 {
		writeJSON(w, status, models.ErrorResponse{Error: "search failed"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegexSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	results := s.legacy
	s.mu.Unlock()

	if results == nil {
		results = []models.SearchResult{}
	}
	writeJSON(w, http.StatusOK, models.RegexSearchResponse{Results: results})
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	book, ok := s.books[id]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Book not found"})
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	recs := s.recommendations[id]
	s.mu.Unlock()

	if recs == nil {
		recs = []models.Book{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	content, ok := s.content[id]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Book not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"book_id": id,
		"content": content,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package state

import (
	"math"
	"testing"

	"github.com/justyntemme/booksearch-t/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book(id int) models.Book {
	return models.Book{ID: id, Title: "Title", Author: "Author"}
}

func TestNew_Placeholders(t *testing.T) {
	s := New("", 16)

	assert.Equal(t, ViewHome, s.View())
	assert.Equal(t, 1, s.Page().Page)
	assert.Equal(t, 1, s.Page().TotalPages)
	assert.Equal(t, models.SearchKeyword, s.Page().Mode)
	assert.False(t, s.Searched())
	_, ok := s.BookID()
	assert.False(t, ok)
}

func TestBeginSearch_EmptyQuery(t *testing.T) {
	s := New(models.SearchKeyword, 16)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := s.BeginSearch(q, 1)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.False(t, s.Searching())
}

func TestApplySearch_CommitsAndClamps(t *testing.T) {
	tests := []struct {
		name      string
		reqPage   int
		respPage  int
		respTotal int
		wantPage  int
		wantTotal int
	}{
		{"normal", 2, 2, 5, 2, 5},
		{"no results", 1, 1, 0, 1, 1},
		{"page past end", 9, 9, 3, 3, 3},
		{"missing page echoes request", 4, 0, 6, 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(models.SearchKeyword, 16)
			req, err := s.BeginSearch(" whale ", tt.reqPage)
			require.NoError(t, err)
			assert.Equal(t, "whale", req.Query)

			ok := s.ApplySearch(req, &models.SearchResponse{Page: tt.respPage, TotalPages: tt.respTotal})
			require.True(t, ok)

			p := s.Page()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantTotal, p.TotalPages)
			assert.Equal(t, "whale", p.Query)
			assert.GreaterOrEqual(t, p.Page, 1)
			assert.LessOrEqual(t, p.Page, p.TotalPages)
		})
	}
}

func TestApplySearch_StaleResponseDiscarded(t *testing.T) {
	s := New(models.SearchKeyword, 16)

	first, _ := s.BeginSearch("whale", 1)
	second, _ := s.BeginSearch("ship", 1)

	// The newer request resolves first.
	require.True(t, s.ApplySearch(second, &models.SearchResponse{
		Books: []models.Book{book(2)}, Page: 1, TotalPages: 1,
	}))
	// The older one arrives late and must not overwrite it.
	assert.False(t, s.ApplySearch(first, &models.SearchResponse{
		Books: []models.Book{book(1)}, Page: 1, TotalPages: 4,
	}))

	assert.Equal(t, "ship", s.Page().Query)
	assert.Equal(t, 1, s.Page().TotalPages)
	require.Len(t, s.Books(), 1)
	assert.Equal(t, 2, s.Books()[0].ID)
	assert.False(t, s.FailSearch(first))
}

func TestFailSearch_LeavesCommittedState(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	req, _ := s.BeginSearch("whale", 2)
	s.ApplySearch(req, &models.SearchResponse{
		Results: []models.SearchResult{{Book: book(1), Occurrences: 3}},
		Books:   []models.Book{book(1)},
		Page:    2, TotalPages: 4,
	})

	next, _ := s.BeginSearch("whale", 3)
	assert.True(t, s.Searching())
	assert.True(t, s.FailSearch(next))

	assert.False(t, s.Searching())
	assert.Equal(t, 2, s.Page().Page)
	assert.Equal(t, 4, s.Page().TotalPages)
	assert.Len(t, s.Results(), 1)
}

func TestSearchUsesModeAtIssueTime(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	s.SetMode(models.SearchRegex)

	req, err := s.BeginSearch("wh.*", 1)
	require.NoError(t, err)
	assert.Equal(t, models.SearchRegex, req.Mode)
}

func TestBookTransitions(t *testing.T) {
	s := New(models.SearchKeyword, 16)

	seq := s.SelectBook(5)
	assert.Equal(t, ViewBook, s.View())
	assert.True(t, s.Loading())

	detail := &models.BookDetail{Book: book(5)}
	require.True(t, s.ApplyBook(seq, detail, []models.Book{}))
	assert.False(t, s.Loading())
	assert.Equal(t, detail, s.Detail())

	id, cseq, err := s.OpenReader()
	require.NoError(t, err)
	assert.Equal(t, 5, id)
	assert.Equal(t, ViewReader, s.View())

	require.True(t, s.ApplyContent(cseq, "Call me Ishmael."))
	assert.Equal(t, "Call me Ishmael.", s.Content())

	id, refetch := s.CloseReader()
	assert.Equal(t, 5, id)
	assert.False(t, refetch)
	assert.Equal(t, ViewBook, s.View())
}

func TestFailBook_RevertsHome(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	seq := s.SelectBook(5)

	assert.True(t, s.FailBook(seq))
	assert.Equal(t, ViewHome, s.View())
	assert.False(t, s.LoadingBook())
}

func TestSelectBook_SupersedesPendingLoad(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	old := s.SelectBook(1)
	cur := s.SelectBook(2)

	assert.False(t, s.ApplyBook(old, &models.BookDetail{Book: book(1)}, nil))
	assert.True(t, s.ApplyBook(cur, &models.BookDetail{Book: book(2)}, nil))
	assert.Equal(t, 2, s.Detail().ID)
}

func TestGoHome_DropsPendingLoads(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	seq := s.SelectBook(1)
	s.GoHome()

	assert.False(t, s.ApplyBook(seq, &models.BookDetail{Book: book(1)}, nil))
	assert.False(t, s.FailBook(seq))
	assert.Equal(t, ViewHome, s.View())
}

func TestFailContent_FallsBackToBook(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	bseq := s.SelectBook(5)
	s.ApplyBook(bseq, &models.BookDetail{Book: book(5)}, nil)
	_, cseq, _ := s.OpenReader()

	id, fallback := s.FailContent(cseq)
	assert.True(t, fallback)
	assert.Equal(t, 5, id)
}

func TestFailContent_StaleIgnored(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	s.SelectBook(5)
	_, cseq, _ := s.OpenReader()
	s.CloseReader()

	_, fallback := s.FailContent(cseq)
	assert.False(t, fallback)
}

func TestOpenReader_WithoutBook(t *testing.T) {
	s := New(models.SearchKeyword, 16)

	_, _, err := s.OpenReader()
	assert.ErrorIs(t, err, ErrNoBook)
	assert.Equal(t, ViewHome, s.View())
}

func TestCloseReader_WithoutBookGoesHome(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	// Force the degenerate state: reader active with no book.
	s.view = ViewReader

	_, refetch := s.CloseReader()
	assert.False(t, refetch)
	assert.Equal(t, ViewHome, s.View())
}

func TestCloseReader_RefetchesWhenDetailMissing(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	s.SelectBook(5)
	s.OpenReader()

	id, refetch := s.CloseReader()
	assert.Equal(t, 5, id)
	assert.True(t, refetch)
}

func TestChangeFontSize_AlwaysClamped(t *testing.T) {
	deltas := []int{-1000, -13, -2, -1, 0, 1, 2, 7, 13, 1000, math.MaxInt, math.MinInt}
	for _, start := range []int{12, 16, 24} {
		for _, d := range deltas {
			s := New(models.SearchKeyword, start)
			got := s.ChangeFontSize(d)
			assert.GreaterOrEqual(t, got, 12, "start=%d delta=%d", start, d)
			assert.LessOrEqual(t, got, 24, "start=%d delta=%d", start, d)
		}
	}

	s := New(models.SearchKeyword, 16)
	assert.Equal(t, 18, s.ChangeFontSize(2))
	assert.Equal(t, 24, s.ChangeFontSize(math.MaxInt))
	assert.Equal(t, 12, s.ChangeFontSize(math.MinInt))
}

func TestToggleTheme_ResetsOnReaderEntry(t *testing.T) {
	s := New(models.SearchKeyword, 16)
	s.SelectBook(1)
	s.OpenReader()

	assert.True(t, s.ToggleTheme())
	assert.True(t, s.Reader().Light)

	s.CloseReader()
	s.OpenReader()
	assert.False(t, s.Reader().Light)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/justyntemme/booksearch-t/internal/api"
	"github.com/justyntemme/booksearch-t/internal/api/apitest"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCLI(t *testing.T, format outputFormat) (*cli, *apitest.Server, *bytes.Buffer) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	return &cli{
		client: api.NewClient(srv.URL),
		f:      render.NewFormatter("en-US"),
		out:    &buf,
		format: format,
	}, srv, &buf
}

func searchFixture(query, mode string, page int) (models.SearchResponse, int) {
	return models.SearchResponse{
		Results: []models.SearchResult{
			{Book: models.Book{ID: 1}, Occurrences: 3},
		},
		Books: []models.Book{
			{ID: 1, Title: "Moby Dick", Author: "Herman Melville", WordCount: 1200},
			{ID: 2, Title: "<script>x</script>", Author: "Anon"},
		},
		TotalCount: 12,
		Page:       page,
		TotalPages: 6,
	}, 0
}

func TestParseFormat(t *testing.T) {
	f, err := parseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, formatHTML, f)

	_, err = parseFormat("yaml")
	assert.Error(t, err)
}

func TestCLISearch_Text(t *testing.T) {
	c, srv, buf := newTestCLI(t, formatText)
	srv.SetSearch(searchFixture)

	require.NoError(t, c.search(context.Background(), "whale", models.SearchKeyword, 4))

	out := buf.String()
	assert.Contains(t, out, "Found 12 books - Page 4 of 6")
	assert.Contains(t, out, "Moby Dick by Herman Melville  ID: 1 · 1,200 words [3 matches]")
	assert.Contains(t, out, "← Previous 1 2 3 [4] 5 6 Next →")
}

func TestCLISearch_HTMLEscapes(t *testing.T) {
	c, srv, buf := newTestCLI(t, formatHTML)
	srv.SetSearch(searchFixture)

	require.NoError(t, c.search(context.Background(), "whale", models.SearchKeyword, 1))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestCLISearch_EmptyQuery(t *testing.T) {
	c, srv, _ := newTestCLI(t, formatText)

	assert.Error(t, c.search(context.Background(), " ", models.SearchKeyword, 1))
	assert.Equal(t, 0, srv.Calls("/api/search"))
}

func TestCLIBook_JSON(t *testing.T) {
	c, srv, buf := newTestCLI(t, formatJSON)
	srv.AddBook(models.BookDetail{Book: models.Book{ID: 5, Title: "Omoo"}}, nil, "")

	require.NoError(t, c.book(context.Background(), 5))

	var got struct {
		Book            models.BookDetail `json:"book"`
		Recommendations []models.Book     `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Omoo", got.Book.Title)
	assert.Empty(t, got.Recommendations)
}

func TestCLIBook_Text(t *testing.T) {
	c, srv, buf := newTestCLI(t, formatText)
	srv.AddBook(models.BookDetail{Book: models.Book{ID: 5, Title: "Omoo", Author: "Melville", WordCount: 5000}}, nil, "")

	require.NoError(t, c.book(context.Background(), 5))
	assert.Contains(t, buf.String(), "5,000")
	assert.Contains(t, buf.String(), "No recommendations available")
}

func TestCLIBook_NotFound(t *testing.T) {
	c, _, _ := newTestCLI(t, formatText)

	err := c.book(context.Background(), 42)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestCLILegacy(t *testing.T) {
	c, srv, buf := newTestCLI(t, formatText)
	srv.SetLegacyResults([]models.SearchResult{
		{Book: models.Book{ID: 1, Title: "Moby Dick", Author: "Melville"}, Occurrences: 2, Relevance: 1234.5},
	})

	require.NoError(t, c.legacy(context.Background(), "wh.le"))
	assert.Contains(t, buf.String(), "[2 matches]")
	assert.Contains(t, buf.String(), "relevance Moby Dick: 1,234.50")
}

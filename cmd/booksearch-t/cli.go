package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/justyntemme/booksearch-t/internal/api"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/pkg/models"
	"golang.org/x/sync/errgroup"
)

type outputFormat int

const (
	formatText outputFormat = iota
	formatHTML
	formatJSON
)

func parseFormat(s string) (outputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return formatText, nil
	case "html":
		return formatHTML, nil
	case "json":
		return formatJSON, nil
	default:
		return 0, fmt.Errorf("unknown output format %q", s)
	}
}

// cli prints one-shot results without starting the TUI
type cli struct {
	client *api.Client
	f      render.Formatter
	out    io.Writer
	format outputFormat
}

func (c *cli) search(ctx context.Context, query string, mode models.SearchMode, page int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("please enter a search query")
	}

	resp, err := c.client.Search(ctx, query, mode, max(1, page))
	if err != nil {
		return err
	}

	if c.format == formatJSON {
		return c.writeJSON(resp)
	}

	total := max(1, resp.TotalPages)
	current := resp.Page
	if current == 0 {
		current = page
	}
	current = max(1, min(total, current))

	grid := render.ResultsGrid(c.f, render.ResultsPage{
		TotalCount: resp.TotalCount,
		Page:       current,
		TotalPages: total,
		Books:      resp.Books,
		Results:    resp.Results,
	})
	pager := render.Paginate(current, total)

	if c.format == formatHTML {
		return render.WriteResultsHTML(c.out, grid, pager)
	}

	fmt.Fprintln(c.out, grid.Summary)
	c.writeGrid(grid)
	if !pager.Hidden {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, textPagination(pager))
	}
	return nil
}

// book prints a book's details with its recommendations, fetched together
func (c *cli) book(ctx context.Context, id int) error {
	var (
		detail *models.BookDetail
		recs   []models.Book
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = c.client.GetBook(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		recs, err = c.client.GetRecommendations(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if c.format == formatJSON {
		return c.writeJSON(struct {
			Book            *models.BookDetail `json:"book"`
			Recommendations []models.Book      `json:"recommendations"`
		}{detail, recs})
	}

	panel := render.Detail(c.f, *detail)
	grid := render.RecommendationsGrid(c.f, recs)

	if c.format == formatHTML {
		return render.WriteDetailHTML(c.out, panel, grid)
	}

	fmt.Fprintln(c.out, panel.Title)
	for _, field := range panel.Fields {
		fmt.Fprintf(c.out, "  %-14s %s\n", field.Label+":", field.Value)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Recommended Books")
	c.writeGrid(grid)
	return nil
}

// legacy prints the unpaginated results of the old regex endpoint
func (c *cli) legacy(ctx context.Context, pattern string) error {
	results, err := c.client.SearchRegexLegacy(ctx, pattern)
	if err != nil {
		return err
	}

	if c.format == formatJSON {
		return c.writeJSON(results)
	}

	books := make([]models.Book, len(results))
	for i, r := range results {
		books[i] = r.Book
	}
	grid := render.ResultsGrid(c.f, render.ResultsPage{
		TotalCount: len(results),
		Page:       1,
		TotalPages: 1,
		Books:      books,
		Results:    results,
	})

	if c.format == formatHTML {
		return render.WriteResultsHTML(c.out, grid, render.Paginate(1, 1))
	}

	fmt.Fprintln(c.out, grid.Summary)
	c.writeGrid(grid)
	for _, r := range results {
		if r.Relevance > 0 {
			fmt.Fprintf(c.out, "  relevance %s: %s\n", render.Plain(r.Book.Title), c.f.Relevance(r.Relevance))
		}
	}
	return nil
}

func (c *cli) writeGrid(g render.Grid) {
	if g.Empty() {
		fmt.Fprintln(c.out, "  "+g.Placeholder)
		return
	}
	for _, card := range g.Cards {
		line := fmt.Sprintf("  %s by %s  %s", card.Title, card.Author, card.IDLabel)
		if card.Words != "" {
			line += " · " + card.Words
		}
		if card.Matches != "" {
			line += " [" + card.Matches + "]"
		}
		fmt.Fprintln(c.out, line)
	}
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// textPagination renders the control on one line, the current page in
// brackets and disabled buttons left out
func textPagination(p render.Pagination) string {
	parts := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		switch {
		case it.Disabled:
			continue
		case it.Active:
			parts = append(parts, "["+it.Label+"]")
		default:
			parts = append(parts, it.Label)
		}
	}
	return strings.Join(parts, " ")
}

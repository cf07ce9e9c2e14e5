package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/internal/state"
	"github.com/justyntemme/booksearch-t/internal/ui/styles"
)

// HomeView is the search box with its results grid and pagination
type HomeView struct {
	st *state.State
	f  render.Formatter

	searchInput textinput.Model
	cursor      int
	offset      int // For scrolling

	// Dimensions
	width  int
	height int
}

// NewHomeView creates the home view
func NewHomeView(st *state.State, f render.Formatter) *HomeView {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search books..."
	searchInput.CharLimit = 200
	searchInput.Width = 40
	searchInput.Focus()

	return &HomeView{
		st:          st,
		f:           f,
		searchInput: searchInput,
		width:       80,
		height:      24,
	}
}

// Init implements View
func (v *HomeView) Init() tea.Cmd {
	if v.searchInput.Focused() {
		return textinput.Blink
	}
	return nil
}

// Focused reports whether the search box takes key presses
func (v *HomeView) Focused() bool {
	return v.searchInput.Focused()
}

// Blur moves focus from the search box to the results
func (v *HomeView) Blur() {
	v.searchInput.Blur()
}

// ResetCursor moves the selection to the first card
func (v *HomeView) ResetCursor() {
	v.cursor = 0
	v.offset = 0
}

// Update implements View
func (v *HomeView) Update(msg tea.Msg) (View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		v.searchInput, cmd = v.searchInput.Update(msg)
		return v, cmd
	}

	// Typing in the search box
	if v.searchInput.Focused() {
		switch keyMsg.String() {
		case "enter":
			return v, send(SearchMsg{Query: v.searchInput.Value(), Page: 1})
		case "tab":
			return v, send(SetModeMsg{Mode: v.st.Page().Mode.Toggle()})
		case "esc", "down":
			if len(v.st.Books()) > 0 {
				v.searchInput.Blur()
			}
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, cmd
		}
	}

	books := v.st.Books()
	pager := v.pagination()

	switch keyMsg.String() {
	case "j", "down":
		v.moveCursor(1)
	case "k", "up":
		if v.cursor == 0 {
			v.searchInput.Focus()
			return v, textinput.Blink
		}
		v.moveCursor(-1)
	case "g", "home":
		v.cursor = 0
		v.offset = 0
	case "G", "end":
		v.cursor = max(0, len(books)-1)
		v.updateOffset()
	case "/", "esc":
		v.searchInput.Focus()
		return v, textinput.Blink
	case "tab":
		return v, send(SetModeMsg{Mode: v.st.Page().Mode.Toggle()})
	case "enter":
		if v.cursor < len(books) {
			return v, send(SelectBookMsg{ID: books[v.cursor].ID})
		}
	case "n", "right":
		if next, ok := pager.Item(render.ItemNext); ok && !next.Disabled {
			return v, send(SearchMsg{Query: v.searchInput.Value(), Page: next.Page})
		}
	case "p", "left":
		if prev, ok := pager.Item(render.ItemPrev); ok && !prev.Disabled {
			return v, send(SearchMsg{Query: v.searchInput.Value(), Page: prev.Page})
		}
	}
	return v, nil
}

// View implements View
func (v *HomeView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader() + "\n")

	input := styles.InputField
	if v.searchInput.Focused() {
		input = styles.InputFieldFocused
	}
	b.WriteString(input.Render(v.searchInput.View()) + "\n")

	if !v.st.Searched() {
		b.WriteString(lipgloss.Place(
			v.width,
			max(1, v.height-6),
			lipgloss.Center,
			lipgloss.Center,
			styles.MutedText.Render("Type a query and press enter to search"),
		))
		return b.String()
	}

	p := v.st.Page()
	grid := render.ResultsGrid(v.f, render.ResultsPage{
		TotalCount: p.TotalCount,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Books:      v.st.Books(),
		Results:    v.st.Results(),
	})
	b.WriteString(styles.MutedText.Render(grid.Summary) + "\n\n")

	if grid.Empty() {
		b.WriteString(styles.MutedText.Render(grid.Placeholder) + "\n")
	} else {
		visibleLines := v.visibleLines()
		for i := v.offset; i < min(v.offset+visibleLines, len(grid.Cards)); i++ {
			selected := i == v.cursor && !v.searchInput.Focused()
			b.WriteString(v.renderCard(grid.Cards[i], selected) + "\n")
		}
	}

	if bar := RenderPagination(v.pagination()); bar != "" {
		b.WriteString("\n" + bar + "\n")
	}
	b.WriteString("\n" + v.renderFooter())

	return b.String()
}

// SetSize implements View
func (v *HomeView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.searchInput.Width = min(60, max(10, width-10))
	v.updateOffset()
}

func (v *HomeView) pagination() render.Pagination {
	p := v.st.Page()
	if !v.st.Searched() {
		return render.Paginate(1, 1)
	}
	return render.Paginate(p.Page, p.TotalPages)
}

func (v *HomeView) renderHeader() string {
	title := styles.TitleBar.Render(" Book Search ")
	mode := styles.Help.Render(" Mode: ") + styles.SecondaryText.Render(v.st.Page().Mode.Label())

	status := ""
	if v.st.Searching() {
		status = styles.Searching.Render(" searching…")
	}

	return title + mode + status
}

// renderCard renders a single result line
func (v *HomeView) renderCard(c render.Card, selected bool) string {
	meta := styles.MutedText.Render("  " + c.IDLabel + " · " + c.Words)
	badge := ""
	if c.Matches != "" {
		badge = " " + styles.MatchesBadge.Render(c.Matches)
	}

	// Truncate the title part to the room left by the metadata
	room := v.width - 6 - lipgloss.Width(meta) - lipgloss.Width(badge)
	return bookLine(c, max(10, room), selected) + meta + badge
}

func (v *HomeView) renderFooter() string {
	help := []string{
		styles.HelpKey.Render("enter") + styles.Help.Render(" search/open"),
		styles.HelpKey.Render("tab") + styles.Help.Render(" mode"),
		styles.HelpKey.Render("j/k") + styles.Help.Render(" nav"),
		styles.HelpKey.Render("n/p") + styles.Help.Render(" page"),
		styles.HelpKey.Render("/") + styles.Help.Render(" edit query"),
	}
	return strings.Join(help, "  ")
}

// moveCursor moves the cursor by delta
func (v *HomeView) moveCursor(delta int) {
	n := len(v.st.Books())
	v.cursor = max(0, min(n-1, v.cursor+delta))
	v.updateOffset()
}

// updateOffset ensures the cursor is visible
func (v *HomeView) updateOffset() {
	visibleLines := v.visibleLines()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visibleLines {
		v.offset = v.cursor - visibleLines + 1
	}
}

// visibleLines returns the number of visible result lines
func (v *HomeView) visibleLines() int {
	// header, input box, summary, pagination, footer and margins
	return max(1, v.height-12)
}

// RenderPagination draws a pagination control; hidden controls render empty
func RenderPagination(p render.Pagination) string {
	if p.Hidden {
		return ""
	}

	parts := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		switch {
		case it.Kind == render.ItemEllipsis:
			parts = append(parts, styles.MutedText.Render(it.Label))
		case it.Disabled:
			parts = append(parts, styles.PageButtonDisabled.Render(it.Label))
		case it.Active:
			parts = append(parts, styles.PageButtonActive.Render(it.Label))
		default:
			parts = append(parts, styles.PageButton.Render(it.Label))
		}
	}
	return strings.Join(parts, " ")
}

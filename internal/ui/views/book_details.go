package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/internal/state"
	"github.com/justyntemme/booksearch-t/internal/ui/styles"
)

// BookDetailsView displays a book's details and its recommendations
type BookDetailsView struct {
	st *state.State
	f  render.Formatter

	// Cursor over the recommendations
	cursor int

	// Dimensions
	width  int
	height int
}

// NewBookDetailsView creates a new book details view
func NewBookDetailsView(st *state.State, f render.Formatter) *BookDetailsView {
	return &BookDetailsView{
		st:     st,
		f:      f,
		width:  80,
		height: 24,
	}
}

// Init implements View
func (v *BookDetailsView) Init() tea.Cmd {
	v.cursor = 0
	return nil
}

// Update implements View
func (v *BookDetailsView) Update(msg tea.Msg) (View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	recs := v.st.Recommendations()
	switch keyMsg.String() {
	case "esc", "q", "backspace":
		return v, send(GoHomeMsg{})
	case "j", "down":
		v.cursor = max(0, min(len(recs)-1, v.cursor+1))
	case "k", "up":
		v.cursor = max(0, v.cursor-1)
	case "r":
		if v.st.Detail() != nil {
			return v, send(ReadBookMsg{})
		}
	case "enter":
		if v.cursor < len(recs) {
			return v, send(SelectBookMsg{ID: recs[v.cursor].ID})
		}
	}
	return v, nil
}

// View implements View
func (v *BookDetailsView) View() string {
	detail := v.st.Detail()
	if detail == nil {
		msg := "No book selected"
		if v.st.LoadingBook() {
			msg = "Loading book..."
		}
		return lipgloss.Place(
			v.width,
			v.height-2,
			lipgloss.Center,
			lipgloss.Center,
			styles.MutedText.Render(msg),
		)
	}

	var b strings.Builder
	panel := render.Detail(v.f, *detail)

	b.WriteString(styles.TitleBar.Render(" "+styles.TruncateText(panel.Title.String(), v.width-4)+" ") + "\n\n")
	for _, field := range panel.Fields {
		b.WriteString(v.renderField(field.Label, field.Value.String()))
	}

	b.WriteString("\n" + styles.HelpKey.Render("Recommended Books") + "\n")
	grid := render.RecommendationsGrid(v.f, v.st.Recommendations())
	if grid.Empty() {
		b.WriteString(styles.MutedText.Render("  "+grid.Placeholder) + "\n")
	}
	for i, c := range grid.Cards {
		b.WriteString(bookLine(c, max(10, v.width-6), i == v.cursor) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpKey.Render("r") + styles.Help.Render(" read") + "  ")
	b.WriteString(styles.HelpKey.Render("enter") + styles.Help.Render(" open recommendation") + "  ")
	b.WriteString(styles.HelpKey.Render("esc") + styles.Help.Render(" back"))

	return b.String()
}

// SetSize implements View
func (v *BookDetailsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// renderField renders a labeled field
func (v *BookDetailsView) renderField(label, value string) string {
	return styles.FieldLabel.Render(label+":") + " " +
		styles.TruncateText(value, max(10, v.width-18)) + "\n"
}

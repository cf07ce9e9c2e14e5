// Package views renders the application state to the terminal. Views read
// the shared state and turn key presses into action messages; only the App
// changes state.
package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/internal/ui/styles"
	"github.com/justyntemme/booksearch-t/pkg/models"
)

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Action messages sent from views to the App

// SearchMsg requests a page of search results
type SearchMsg struct {
	Query string
	Page  int
}

// SetModeMsg selects the search mode
type SetModeMsg struct {
	Mode models.SearchMode
}

// SelectBookMsg opens the book view for a book
type SelectBookMsg struct {
	ID int
}

// ReadBookMsg opens the reader for the selected book
type ReadBookMsg struct{}

// CloseReaderMsg leaves the reader
type CloseReaderMsg struct{}

// GoHomeMsg returns to the home view
type GoHomeMsg struct{}

// FontSizeMsg changes the reader font size by Delta
type FontSizeMsg struct {
	Delta int
}

// ToggleThemeMsg flips the reader theme
type ToggleThemeMsg struct{}

// Font size change per key press
const FontStep = 2

// send wraps msg in a command
func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// bookLine renders "title by author" within room cells. The author gets at
// most a third of the room; the title takes the rest.
func bookLine(c render.Card, room int, selected bool) string {
	author := styles.TruncateText(c.Author.String(), max(8, room/3))
	title := styles.TruncateText(c.Title.String(), max(8, room-lipgloss.Width(author)-4))

	if selected {
		return styles.ListItemSelected.Render("▸ " + title + " by " + author)
	}
	return styles.ListItem.Render("  " + styles.BookTitle.Render(title) + " by " + styles.BookAuthor.Render(author))
}

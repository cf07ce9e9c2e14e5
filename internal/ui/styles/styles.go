package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	// Colors
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#06B6D4") // Cyan
	Success    = lipgloss.Color("#10B981") // Green
	Warning    = lipgloss.Color("#F59E0B") // Amber
	Error      = lipgloss.Color("#EF4444") // Red
	Muted      = lipgloss.Color("#6B7280") // Gray
	Background = lipgloss.Color("#1F2937") // Dark gray
	Foreground = lipgloss.Color("#F9FAFB") // Light gray
	Border     = lipgloss.Color("#374151") // Gray border

	// Title bar
	TitleBar = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Padding(0, 1).
			Bold(true)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	// Muted text style
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// Secondary text style
	SecondaryText = lipgloss.NewStyle().
			Foreground(Secondary)

	// Error message
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true).
			Padding(0, 1)

	// In-flight request indicator
	Searching = lipgloss.NewStyle().
			Foreground(Warning)

	// Input field
	InputField = lipgloss.NewStyle().
			Foreground(Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	InputFieldFocused = InputField.
				BorderForeground(Primary)

	// List styles
	ListItem = lipgloss.NewStyle().
			Foreground(Foreground).
			Padding(0, 2)

	ListItemSelected = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Padding(0, 2).
				Bold(true)

	// Reader styles
	ReaderHeader = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Padding(0, 1).
			Bold(true)

	ReaderProgress = lipgloss.NewStyle().
			Foreground(Secondary).
			Align(lipgloss.Right)

	// Dialog/Modal styles
	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	// Pagination buttons
	PageButton = lipgloss.NewStyle().
			Foreground(Foreground).
			Padding(0, 1)

	PageButtonActive = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Padding(0, 1).
				Bold(true)

	PageButtonDisabled = lipgloss.NewStyle().
				Foreground(Muted).
				Padding(0, 1)

	// Book info styles
	BookTitle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true)

	BookAuthor = lipgloss.NewStyle().
			Foreground(Secondary)

	FieldLabel = lipgloss.NewStyle().
			Foreground(Muted).
			Width(14)

	// Occurrence badge on result cards
	MatchesBadge = lipgloss.NewStyle().
			Foreground(Background).
			Background(Success).
			Padding(0, 1).
			Bold(true)
)

// TruncateText shortens s to at most width cells, ending with an ellipsis
func TruncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

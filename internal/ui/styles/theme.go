package styles

import "github.com/charmbracelet/lipgloss"

// Theme represents a color scheme for the application
type Theme struct {
	Name        string
	Description string

	// Core colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	// UI element colors
	Border        lipgloss.Color
	Selection     lipgloss.Color
	SelectionText lipgloss.Color
	Badge         lipgloss.Color
	BadgeText     lipgloss.Color
}

// Built-in themes
var (
	// DarkTheme is the default dark theme
	DarkTheme = Theme{
		Name:          "dark",
		Description:   "Dark theme (default)",
		Primary:       lipgloss.Color("#7C3AED"),
		Secondary:     lipgloss.Color("#06B6D4"),
		Background:    lipgloss.Color("#1F2937"),
		Foreground:    lipgloss.Color("#F9FAFB"),
		Success:       lipgloss.Color("#10B981"),
		Warning:       lipgloss.Color("#F59E0B"),
		Error:         lipgloss.Color("#EF4444"),
		Muted:         lipgloss.Color("#6B7280"),
		Border:        lipgloss.Color("#374151"),
		Selection:     lipgloss.Color("#7C3AED"),
		SelectionText: lipgloss.Color("#F9FAFB"),
		Badge:         lipgloss.Color("#10B981"),
		BadgeText:     lipgloss.Color("#1F2937"),
	}

	// LightTheme is a light color scheme
	LightTheme = Theme{
		Name:          "light",
		Description:   "Light theme",
		Primary:       lipgloss.Color("#7C3AED"),
		Secondary:     lipgloss.Color("#0891B2"),
		Background:    lipgloss.Color("#FFFFFF"),
		Foreground:    lipgloss.Color("#1F2937"),
		Success:       lipgloss.Color("#059669"),
		Warning:       lipgloss.Color("#D97706"),
		Error:         lipgloss.Color("#DC2626"),
		Muted:         lipgloss.Color("#9CA3AF"),
		Border:        lipgloss.Color("#E5E7EB"),
		Selection:     lipgloss.Color("#7C3AED"),
		SelectionText: lipgloss.Color("#FFFFFF"),
		Badge:         lipgloss.Color("#059669"),
		BadgeText:     lipgloss.Color("#FFFFFF"),
	}

	// BuiltinThemes is a list of all available built-in themes
	BuiltinThemes = []Theme{
		DarkTheme,
		LightTheme,
	}

	// currentTheme holds the active theme
	currentTheme = DarkTheme
)

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	for _, t := range BuiltinThemes {
		if t.Name == name {
			return t
		}
	}
	return DarkTheme
}

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetCurrentTheme sets the active theme by name
func SetCurrentTheme(name string) {
	currentTheme = GetTheme(name)
	ApplyTheme(currentTheme)
}

// ReaderContent returns the style of the reader text container. The reader
// has its own light/dark switch independent of the application theme.
func ReaderContent(light bool) lipgloss.Style {
	t := DarkTheme
	if light {
		t = LightTheme
	}
	return lipgloss.NewStyle().
		Foreground(t.Foreground).
		Background(t.Background).
		Padding(0, 2)
}

// ApplyTheme updates all global styles to use the given theme's colors
func ApplyTheme(theme Theme) {
	// Update color variables
	Primary = theme.Primary
	Secondary = theme.Secondary
	Success = theme.Success
	Warning = theme.Warning
	Error = theme.Error
	Muted = theme.Muted
	Background = theme.Background
	Foreground = theme.Foreground
	Border = theme.Border

	// Update styles
	TitleBar = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	Help = lipgloss.NewStyle().
		Foreground(theme.Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
		Foreground(theme.Muted)

	SecondaryText = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Padding(0, 1)

	Searching = lipgloss.NewStyle().
		Foreground(theme.Warning)

	InputField = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	InputFieldFocused = InputField.
		BorderForeground(theme.Primary)

	ListItem = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 2)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Selection).
		Padding(0, 2).
		Bold(true)

	ReaderHeader = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	ReaderProgress = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Align(lipgloss.Right)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginBottom(1)

	PageButton = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 1)

	PageButtonActive = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Selection).
		Padding(0, 1).
		Bold(true)

	PageButtonDisabled = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 1)

	BookTitle = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Bold(true)

	BookAuthor = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	FieldLabel = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Width(14)

	MatchesBadge = lipgloss.NewStyle().
		Foreground(theme.BadgeText).
		Background(theme.Badge).
		Padding(0, 1).
		Bold(true)
}

// init applies the default theme on package load
func init() {
	ApplyTheme(DarkTheme)
}

package views

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/internal/state"
	"github.com/justyntemme/booksearch-t/internal/ui/styles"
)

// ReaderView displays book content
type ReaderView struct {
	st *state.State

	// Wrapped content and the inputs it was wrapped for
	panel       render.ReaderPanel
	wrappedFor  string
	wrappedSize int
	wrappedW    int

	lineOffset int

	// Dimensions
	width  int
	height int
}

// NewReaderView creates a new reader view
func NewReaderView(st *state.State) *ReaderView {
	return &ReaderView{
		st:     st,
		width:  80,
		height: 24,
	}
}

// Init implements View
func (v *ReaderView) Init() tea.Cmd {
	v.lineOffset = 0
	return nil
}

// Update implements View
func (v *ReaderView) Update(msg tea.Msg) (View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	v.rewrap()
	switch keyMsg.String() {
	case "j", "down":
		v.scroll(1)
	case "k", "up":
		v.scroll(-1)
	case "ctrl+d", "pgdown":
		v.scroll(v.visibleLines() / 2)
	case "ctrl+u", "pgup":
		v.scroll(-v.visibleLines() / 2)
	case " ":
		v.scroll(v.visibleLines() - 2)
	case "g", "home":
		v.lineOffset = 0
	case "G", "end":
		v.lineOffset = max(0, len(v.panel.Lines)-v.visibleLines())
	case "+", "=":
		return v, send(FontSizeMsg{Delta: FontStep})
	case "-", "_":
		return v, send(FontSizeMsg{Delta: -FontStep})
	case "t":
		return v, send(ToggleThemeMsg{})
	case "q", "esc":
		return v, send(CloseReaderMsg{})
	}
	return v, nil
}

// View implements View
func (v *ReaderView) View() string {
	var b strings.Builder

	v.rewrap()
	b.WriteString(v.renderHeader() + "\n")

	if v.st.LoadingContent() {
		b.WriteString(lipgloss.Place(
			v.width,
			v.height-4,
			lipgloss.Center,
			lipgloss.Center,
			styles.MutedText.Render("Loading..."),
		))
		return b.String()
	}

	content := styles.ReaderContent(v.panel.Light).Width(v.width)
	visibleLines := v.visibleLines()
	for i := v.lineOffset; i < min(v.lineOffset+visibleLines, len(v.panel.Lines)); i++ {
		b.WriteString(content.Render(v.panel.Lines[i]) + "\n")
	}

	b.WriteString("\n" + v.renderFooter())
	return b.String()
}

// SetSize implements View
func (v *ReaderView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Lines returns the wrapped content as currently laid out
func (v *ReaderView) Lines() []string {
	v.rewrap()
	return v.panel.Lines
}

// rewrap lays the content out again when the content, font size or
// width changed since the last layout. The scroll position is kept as a
// fraction of the text.
func (v *ReaderView) rewrap() {
	content := v.st.Content()
	r := v.st.Reader()
	if content == v.wrappedFor && r.FontSize == v.wrappedSize && v.width == v.wrappedW {
		v.panel.Light = r.Light
		return
	}

	progress := 0.0
	if n := len(v.panel.Lines); n > 0 && content == v.wrappedFor {
		progress = float64(v.lineOffset) / float64(n)
	}

	v.panel = render.Reader(content, r.FontSize, r.Light, v.width)
	v.wrappedFor = content
	v.wrappedSize = r.FontSize
	v.wrappedW = v.width

	v.lineOffset = int(progress * float64(len(v.panel.Lines)))
	v.scroll(0)
}

// renderHeader renders the reader header with proper truncation
func (v *ReaderView) renderHeader() string {
	title := "Reader"
	if d := v.st.Detail(); d != nil {
		title = render.Plain(d.Title).Or("Untitled").String()
	} else if id, ok := v.st.BookID(); ok {
		title = "Book " + strconv.Itoa(id)
	}

	maxTitleWidth := max(10, v.width/3)
	titlePart := styles.ReaderHeader.Render(" " + styles.TruncateText(title, maxTitleWidth) + " ")

	r := v.st.Reader()
	theme := "dark"
	if r.Light {
		theme = "light"
	}
	info := styles.Help.Render(fmt.Sprintf(" Font %dpx · %s ", r.FontSize, theme))

	progress := v.calculateProgress()
	progressPart := renderProgressBar(10, float64(progress)/100.0) +
		styles.ReaderProgress.Render(fmt.Sprintf(" %d%%", progress))

	left := titlePart + info
	gap := max(0, v.width-lipgloss.Width(left)-lipgloss.Width(progressPart))
	return left + strings.Repeat(" ", gap) + progressPart
}

// renderProgressBar renders a visual progress bar using Unicode block characters
// width is the total character width, progress is 0.0-1.0
func renderProgressBar(width int, progress float64) string {
	width = max(3, width)
	progress = max(0, min(1, progress))

	const (
		empty    = "░"
		filled   = "█"
		partials = "▏▎▍▌▋▊▉" // 1/8 to 7/8 filled
	)

	filledWidth := progress * float64(width)
	fullBlocks := int(filledWidth)
	remainder := filledWidth - float64(fullBlocks)

	var bar strings.Builder
	for i := 0; i < fullBlocks && i < width; i++ {
		bar.WriteString(filled)
	}

	if fullBlocks < width && remainder > 0 {
		if partialIndex := min(7, int(remainder*8)); partialIndex > 0 {
			bar.WriteRune([]rune(partials)[partialIndex-1])
			fullBlocks++
		}
	}

	for i := fullBlocks; i < width; i++ {
		bar.WriteString(empty)
	}
	return bar.String()
}

func (v *ReaderView) renderFooter() string {
	help := []string{
		styles.HelpKey.Render("j/k") + styles.Help.Render(" scroll"),
		styles.HelpKey.Render("+/-") + styles.Help.Render(" font"),
		styles.HelpKey.Render("t") + styles.Help.Render(" theme"),
		styles.HelpKey.Render("q") + styles.Help.Render(" close"),
	}
	return strings.Join(help, "  ")
}

// scroll scrolls the content by delta lines
func (v *ReaderView) scroll(delta int) {
	maxOffset := max(0, len(v.panel.Lines)-v.visibleLines())
	v.lineOffset = max(0, min(maxOffset, v.lineOffset+delta))
}

// visibleLines returns the number of visible content lines
func (v *ReaderView) visibleLines() int {
	return max(1, v.height-5) // Header, footer, margins
}

// calculateProgress returns reading progress as percentage
func (v *ReaderView) calculateProgress() int {
	if len(v.panel.Lines) == 0 {
		return 0
	}
	if v.lineOffset+v.visibleLines() >= len(v.panel.Lines) {
		return 100
	}
	return (v.lineOffset * 100) / len(v.panel.Lines)
}

package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/justyntemme/booksearch-t/internal/api"
	"github.com/justyntemme/booksearch-t/internal/config"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/internal/state"
	"github.com/justyntemme/booksearch-t/internal/ui/styles"
	"github.com/justyntemme/booksearch-t/internal/ui/views"
	"github.com/justyntemme/booksearch-t/pkg/models"
	"golang.org/x/sync/errgroup"
)

// App is the main application model. It owns the view state and is the
// only code that changes it.
type App struct {
	ctx    context.Context
	client *api.Client
	logger *log.Logger
	st     *state.State
	keys   KeyMap

	help    help.Model
	spinner spinner.Model

	// Window dimensions
	width  int
	height int

	// View models
	homeView   *views.HomeView
	bookView   *views.BookDetailsView
	readerView *views.ReaderView

	showHelp bool
}

// Result messages from API commands
type (
	searchDoneMsg struct {
		req  state.SearchRequest
		resp *models.SearchResponse
		err  error
	}

	bookLoadedMsg struct {
		seq    uint64
		id     int
		detail *models.BookDetail
		recs   []models.Book
		err    error
	}

	contentLoadedMsg struct {
		seq     uint64
		id      int
		content string
		err     error
	}
)

// NewApp creates a new application instance. API calls made by the App
// are bound to ctx.
func NewApp(ctx context.Context, cfg *config.Config, client *api.Client, logger *log.Logger) *App {
	styles.SetCurrentTheme(cfg.Theme)

	st := state.New(cfg.SearchMode, cfg.FontSize)
	f := render.NewFormatter(cfg.Locale)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SecondaryText

	return &App{
		ctx:        ctx,
		client:     client,
		logger:     logger,
		st:         st,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		width:      80,
		height:     24,
		homeView:   views.NewHomeView(st, f),
		bookView:   views.NewBookDetailsView(st, f),
		readerView: views.NewReaderView(st),
	}
}

// State returns the view state
func (a *App) State() *state.State {
	return a.st
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.homeView.Init(),
		a.spinner.Tick,
		tea.SetWindowTitle("booksearch-t"),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		// The bottom line is the status bar
		for _, v := range a.views() {
			v.SetSize(msg.Width, msg.Height-1)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		// The notice is modal
		if a.st.Notice() != "" {
			if key.Matches(msg, a.keys.Dismiss) {
				a.st.DismissNotice()
			}
			return a, nil
		}
		if a.showHelp {
			if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
				a.showHelp = false
			}
			return a, nil
		}
		if !a.typing() {
			switch {
			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil
			case key.Matches(msg, a.keys.Home):
				return a.goHome()
			case msg.String() == "q" && a.st.View() == state.ViewHome:
				return a, tea.Quit
			}
		}

	case views.SearchMsg:
		return a.search(msg.Query, msg.Page)
	case views.SetModeMsg:
		a.st.SetMode(msg.Mode)
		return a, nil
	case views.SelectBookMsg:
		return a.selectBook(msg.ID)
	case views.ReadBookMsg:
		return a.openReader()
	case views.CloseReaderMsg:
		return a.closeReader()
	case views.GoHomeMsg:
		return a.goHome()
	case views.FontSizeMsg:
		size := a.st.ChangeFontSize(msg.Delta)
		a.logger.Debug("font size", "size", size)
		return a, nil
	case views.ToggleThemeMsg:
		a.st.ToggleTheme()
		return a, nil

	case searchDoneMsg:
		return a.searchDone(msg)
	case bookLoadedMsg:
		return a.bookLoaded(msg)
	case contentLoadedMsg:
		return a.contentLoaded(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.st.View() {
	case state.ViewHome:
		_, cmd = a.homeView.Update(msg)
	case state.ViewBook:
		_, cmd = a.bookView.Update(msg)
	case state.ViewReader:
		_, cmd = a.readerView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model
func (a *App) View() string {
	if a.st.Notice() != "" {
		return a.renderNotice()
	}
	if a.showHelp {
		return a.renderHelp()
	}

	var content string
	switch a.st.View() {
	case state.ViewBook:
		content = a.bookView.View()
	case state.ViewReader:
		content = a.readerView.View()
	default:
		content = a.homeView.View()
	}

	content = lipgloss.NewStyle().Height(max(1, a.height-1)).MaxHeight(max(1, a.height-1)).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, content, a.renderStatusBar())
}

func (a *App) views() []views.View {
	return []views.View{a.homeView, a.bookView, a.readerView}
}

// typing reports whether keys go to the search box
func (a *App) typing() bool {
	return a.st.View() == state.ViewHome && a.homeView.Focused()
}

func (a *App) notify(prefix string, err error) {
	a.st.Notify(prefix + err.Error())
}

// search validates and issues a search for page
func (a *App) search(query string, page int) (*App, tea.Cmd) {
	req, err := a.st.BeginSearch(query, page)
	if err != nil {
		a.st.Notify(err.Error())
		return a, nil
	}

	a.logger.Info("search", "query", req.Query, "mode", req.Mode, "page", req.Page, "seq", req.Seq)
	client, ctx := a.client, a.ctx
	return a, func() tea.Msg {
		resp, err := client.Search(ctx, req.Query, req.Mode, req.Page)
		return searchDoneMsg{req: req, resp: resp, err: err}
	}
}

func (a *App) searchDone(msg searchDoneMsg) (*App, tea.Cmd) {
	if msg.err != nil {
		if a.st.FailSearch(msg.req) {
			a.logger.Error("search failed", "query", msg.req.Query, "err", msg.err)
			a.notify("Search failed: ", msg.err)
		}
		return a, nil
	}

	if !a.st.ApplySearch(msg.req, msg.resp) {
		a.logger.Debug("dropping stale search response", "seq", msg.req.Seq)
		return a, nil
	}
	a.homeView.ResetCursor()
	if len(a.st.Books()) > 0 {
		a.homeView.Blur()
	}
	return a, nil
}

// selectBook enters the book view and loads detail and recommendations
// together
func (a *App) selectBook(id int) (*App, tea.Cmd) {
	seq := a.st.SelectBook(id)
	a.logger.Info("open book", "id", id, "seq", seq)

	client, ctx := a.client, a.ctx
	return a, tea.Batch(a.bookView.Init(), func() tea.Msg {
		msg := bookLoadedMsg{seq: seq, id: id}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			detail, err := client.GetBook(gctx, id)
			msg.detail = detail
			return err
		})
		g.Go(func() error {
			recs, err := client.GetRecommendations(gctx, id)
			msg.recs = recs
			return err
		})
		msg.err = g.Wait()
		return msg
	})
}

func (a *App) bookLoaded(msg bookLoadedMsg) (*App, tea.Cmd) {
	if msg.err != nil {
		if a.st.FailBook(msg.seq) {
			a.logger.Error("book load failed", "id", msg.id, "err", msg.err)
			a.notify("Failed to load book: ", msg.err)
			return a, a.homeView.Init()
		}
		return a, nil
	}
	if !a.st.ApplyBook(msg.seq, msg.detail, msg.recs) {
		a.logger.Debug("dropping stale book response", "id", msg.id, "seq", msg.seq)
	}
	return a, nil
}

// openReader enters the reader for the selected book and loads its content
func (a *App) openReader() (*App, tea.Cmd) {
	id, seq, err := a.st.OpenReader()
	if err != nil {
		a.st.Notify(err.Error())
		return a, nil
	}
	a.logger.Info("open reader", "id", id, "seq", seq)

	client, ctx := a.client, a.ctx
	return a, tea.Batch(a.readerView.Init(), func() tea.Msg {
		content, err := client.GetContent(ctx, id)
		return contentLoadedMsg{seq: seq, id: id, content: content, err: err}
	})
}

func (a *App) contentLoaded(msg contentLoadedMsg) (*App, tea.Cmd) {
	if msg.err == nil {
		if !a.st.ApplyContent(msg.seq, msg.content) {
			a.logger.Debug("dropping stale content response", "id", msg.id, "seq", msg.seq)
		}
		return a, nil
	}

	id, fallback := a.st.FailContent(msg.seq)
	if !fallback {
		return a, nil
	}
	a.logger.Error("content load failed", "id", msg.id, "err", msg.err)
	a.notify("Failed to load book content: ", msg.err)
	return a.selectBook(id)
}

// closeReader returns to the book view, reloading it when its detail is
// not at hand
func (a *App) closeReader() (*App, tea.Cmd) {
	id, refetch := a.st.CloseReader()
	if refetch {
		return a.selectBook(id)
	}
	if a.st.View() == state.ViewHome {
		return a, a.homeView.Init()
	}
	return a, nil
}

func (a *App) goHome() (*App, tea.Cmd) {
	a.st.GoHome()
	a.showHelp = false
	return a, a.homeView.Init()
}

func (a *App) renderStatusBar() string {
	left := ""
	if a.st.Loading() {
		left = a.spinner.View() + styles.MutedText.Render(" Loading… ")
	}
	right := a.help.View(a.keys)
	gap := max(0, a.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

// renderNotice renders the blocking notification dialog
func (a *App) renderNotice() string {
	text := render.Plain(a.st.Notice()).String()
	dialog := styles.Dialog.Width(min(60, max(20, a.width-4))).Render(
		styles.ErrorStyle.Render("Notice") + "\n" +
			text + "\n\n" +
			styles.Help.Render("Press ") +
			styles.HelpKey.Render("enter") +
			styles.Help.Render(" to dismiss"),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog)
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	help := styles.Dialog.Width(60).Render(
		styles.DialogTitle.Render("Keyboard Shortcuts") + "\n\n" +
			styles.HelpKey.Render("Search") + "\n" +
			"  Enter   Search / open book\n" +
			"  Tab     Toggle keyword/regex\n" +
			"  j/k     Move down/up\n" +
			"  n/p     Next/previous page\n" +
			"  /       Edit query\n\n" +
			styles.HelpKey.Render("Book") + "\n" +
			"  r       Read book\n" +
			"  Enter   Open recommendation\n" +
			"  Esc     Back to search\n\n" +
			styles.HelpKey.Render("Reader") + "\n" +
			"  j/k     Scroll\n" +
			"  +/-     Font size\n" +
			"  t       Light/dark\n" +
			"  q/Esc   Close reader\n\n" +
			styles.HelpKey.Render("General") + "\n" +
			"  H       Home\n" +
			"  ?       Toggle help\n" +
			"  Ctrl+C  Quit\n\n" +
			styles.Help.Render("Theme: "+styles.CurrentTheme().Description),
	)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		help,
	)
}

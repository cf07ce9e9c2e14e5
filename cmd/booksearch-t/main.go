package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/justyntemme/booksearch-t/internal/api"
	"github.com/justyntemme/booksearch-t/internal/config"
	"github.com/justyntemme/booksearch-t/internal/logging"
	"github.com/justyntemme/booksearch-t/internal/render"
	"github.com/justyntemme/booksearch-t/internal/ui"
	"github.com/justyntemme/booksearch-t/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	// Define flags
	query := flag.String("query", "", "Search once and print the results")
	flag.StringVar(query, "q", "", "Search query (shorthand)")
	mode := flag.String("mode", "", "Search mode: keyword or regex")
	flag.StringVar(mode, "m", "", "Search mode (shorthand)")
	page := flag.Int("page", 1, "Result page to print")
	flag.IntVar(page, "p", 1, "Result page (shorthand)")
	format := flag.String("format", "text", "Output format: text, html or json")
	flag.StringVar(format, "f", "text", "Output format (shorthand)")
	bookID := flag.Int("book", 0, "Print a book's details and recommendations")
	flag.IntVar(bookID, "b", 0, "Book ID (shorthand)")
	pattern := flag.String("pattern", "", "Run a regex search against the legacy endpoint")
	serverURL := flag.String("url", "", "Server URL (e.g., http://myserver:8080)")
	flag.StringVar(serverURL, "s", "", "Server URL (shorthand)")
	showHelp := flag.Bool("help", false, "Show help message")
	flag.BoolVar(showHelp, "h", false, "Show help (shorthand)")
	debug := flag.Bool("debug", false, "Show debug information")

	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Override server URL if provided via flag
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid server URL %q: %v\n", *serverURL, err)
			os.Exit(1)
		}
		// Save to config for future use
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save server URL to config: %v\n", err)
		}
	}

	if *mode != "" {
		m, err := models.ParseSearchMode(*mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.SearchMode = m
	}

	// Debug mode
	if *debug {
		printDebug(os.Stdout, cfg)
		os.Exit(0)
	}

	logger, closer := openLogger(cfg)
	defer closer.Close()

	client := api.NewClient(cfg.ServerURL,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithRateLimit(cfg.RequestsPerSecond),
		api.WithLogger(logger.WithPrefix("api")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// One-shot CLI modes
	if *query != "" || *bookID != 0 || *pattern != "" {
		out, err := parseFormat(*format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		cli := &cli{client: client, f: render.NewFormatter(cfg.Locale), out: os.Stdout, format: out}
		switch {
		case *bookID != 0:
			err = cli.book(ctx, *bookID)
		case *pattern != "":
			err = cli.legacy(ctx, *pattern)
		default:
			err = cli.search(ctx, *query, cfg.SearchMode, *page)
		}
		if err != nil {
			logger.Error("command failed", "err", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			closer.Close()
			os.Exit(1)
		}
		return
	}

	// Run TUI mode
	logger.Info("starting", "server", cfg.ServerURL)
	app := ui.NewApp(ctx, cfg, client, logger.WithPrefix("ui"))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		stop()
		closer.Close()
		os.Exit(1)
	}
}

// openLogger opens the log file, falling back to a silent logger when it
// cannot be created
func openLogger(cfg *config.Config) (*log.Logger, io.Closer) {
	logger, closer, err := logging.Open(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.Discard(), io.NopCloser(nil)
	}
	return logger, closer
}

func printDebug(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Config path: %s\n", cfg.Path())
	fmt.Fprintf(w, "Server URL: %s\n", cfg.ServerURL)
	fmt.Fprintf(w, "Search mode: %s\n", cfg.SearchMode)
	fmt.Fprintf(w, "Font size: %d\n", cfg.FontSize)
	fmt.Fprintf(w, "Theme: %s\n", cfg.Theme)
	fmt.Fprintf(w, "Locale: %s\n", cfg.Locale)
	fmt.Fprintf(w, "Log file: %s (%s)\n", cfg.LogPath(), cfg.LogLevel)
	fmt.Fprintf(w, "Request timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(w, "Requests per second: %g\n", cfg.RequestsPerSecond)
}

func printUsage() {
	fmt.Println("booksearch-t - Terminal client for the book search server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  booksearch-t                       Start the TUI application")
	fmt.Println("  booksearch-t -q <query>            Print one page of search results")
	fmt.Println("  booksearch-t -b <id>               Print a book's details and recommendations")
	fmt.Println("  booksearch-t -pattern <regex>      Search with the legacy regex endpoint")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -q, --query <text>     Search query")
	fmt.Println("  -m, --mode <mode>      keyword or regex")
	fmt.Println("  -p, --page <n>         Result page (default 1)")
	fmt.Println("  -f, --format <fmt>     text, html or json (default text)")
	fmt.Println("  -b, --book <id>        Book ID")
	fmt.Println("  -s, --url <url>        Set server URL (saved to config)")
	fmt.Println("      --debug            Show effective configuration")
	fmt.Println("  -h, --help             Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  booksearch-t --url http://myserver:8080")
	fmt.Println("  booksearch-t -q whale -p 2")
	fmt.Println("  booksearch-t -q 'wh.le' -m regex -f html > results.html")
	fmt.Println()
	fmt.Println("Config: ~/.config/booksearch-t/config.json")
}

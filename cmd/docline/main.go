// Package main is the entry point for the docline viewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/docline/internal/app"
	"github.com/dshills/docline/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	html     bool
	logLevel string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	level := opts.logLevel
	if !opts.html {
		// The terminal owns the screen; only errors reach stderr.
		level = "error"
	}
	opts.Logger = app.NewLogger(os.Stderr, level)

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.html {
		if err := application.Analyze(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := application.ExportHTML(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}
	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool

	flag.StringVar(&opts.ConfigDir, "config", "", "User configuration directory")
	flag.StringVar(&opts.WorkspacePath, "workspace", "", "Project directory holding .docline.toml")
	flag.StringVar(&opts.WorkspacePath, "w", "", "Project directory (shorthand)")
	flag.StringVar(&opts.Language, "lang", "", "Language to highlight (default: detect)")
	flag.IntVar(&opts.WrapWidth, "wrap", -1, "Wrap width in cells, 0 disables wrapping (default: configured)")
	flag.StringVar(&opts.Style, "style", "", "Chroma style name")
	flag.StringVar(&opts.Search, "search", "", "Highlight every occurrence of a term")
	flag.BoolVar(&opts.LineNumbers, "n", false, "Show line numbers")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload layout settings when configuration files change")
	flag.BoolVar(&opts.html, "html", false, "Write highlighted HTML to stdout instead of viewing")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "docline - syntax highlighting file viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: docline [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: j/k scroll, space/b page, g/G top/bottom, arrows pan, q quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("docline %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.File = flag.Arg(0)

	if opts.WorkspacePath == "" {
		if abs, err := filepath.Abs(opts.File); err == nil {
			opts.WorkspacePath = filepath.Dir(abs)
		}
	}
	return opts
}

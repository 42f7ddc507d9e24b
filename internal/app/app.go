// Package app wires configuration, highlighting and rendering into a
// read-only document viewer.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/docline/internal/config"
	"github.com/dshills/docline/internal/config/loader"
	"github.com/dshills/docline/internal/engine/document"
	"github.com/dshills/docline/internal/plugin/lua"
	"github.com/dshills/docline/internal/renderer/backend"
	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/gutter"
	"github.com/dshills/docline/internal/renderer/highlight"
	"github.com/dshills/docline/internal/renderer/statusline"
)

// Options configures the application.
type Options struct {
	// File is the file to show.
	File string

	// ConfigDir overrides the user configuration directory.
	ConfigDir string

	// WorkspacePath is searched for a project configuration file.
	WorkspacePath string

	// Language forces a lexer. Empty detects it from File.
	Language string

	// WrapWidth overrides the configured wrap width when not negative.
	WrapWidth int

	// Style overrides the configured chroma style when set.
	Style string

	// Search highlights every occurrence of a term.
	Search string

	// LineNumbers shows the line-number gutter.
	LineNumbers bool

	// Watch reloads layout settings when a configuration file changes
	// while Run is active.
	Watch bool

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// FS reads the file and configuration. Defaults to the host.
	FS loader.FileSystem
}

// Application owns one document and the components that display it.
type Application struct {
	mu sync.Mutex

	opts     Options
	cfgOpts  []config.Option
	cfg      *config.Config
	doc      *document.Document
	closeDoc func()
	analyzer *highlight.Analyzer
	logger   *slog.Logger

	backend  backend.Backend
	palette  format.Palette
	searchID int
	gutter   *gutter.Gutter // nil when line numbers are off
	status   *statusline.StatusLine

	// first visible row
	top     position
	xOffset int

	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

type position struct {
	line, row int
}

// New loads the configuration and the file named by opts.
func New(opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(nil, "")
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}

	cfgOpts := []config.Option{config.WithFS(fsys)}
	if opts.ConfigDir != "" {
		cfgOpts = append(cfgOpts, config.WithUserConfigDir(opts.ConfigDir))
	}
	if opts.WorkspacePath != "" {
		cfgOpts = append(cfgOpts, config.WithProjectConfigDir(opts.WorkspacePath))
	}
	cfg, err := loadConfig(cfgOpts, opts)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	data, err := fsys.ReadFile(opts.File)
	if err != nil {
		return nil, &InitError{Component: "document", Err: err}
	}
	doc, closeDoc, err := cfg.NewDocument(string(data), lua.WithLogger(logger))
	if err != nil {
		return nil, &InitError{Component: "document", Err: err}
	}

	a := &Application{
		opts:     opts,
		cfgOpts:  cfgOpts,
		cfg:      cfg,
		doc:      doc,
		closeDoc: closeDoc,
		logger:   logger,
		palette:  format.DefaultPalette(),
		status:   statusline.New(),
		done:     make(chan struct{}),
		analyzer: highlight.NewAnalyzer(opts.Language, doc.Scheme(),
			highlight.WithFilename(opts.File),
			highlight.WithLogger(logger)),
	}
	a.status.Filename = filepath.Base(opts.File)
	if opts.LineNumbers {
		a.gutter = gutter.New(gutter.DefaultConfig(), doc.Len())
	}
	a.searchID, _ = doc.Scheme().ID(format.NameSearch)
	if opts.Search != "" {
		a.Search(opts.Search)
	}
	logger.Debug("opened document",
		"file", opts.File,
		"lines", doc.Len(),
		"rows", doc.TotalRows())
	return a, nil
}

// loadConfig loads the configuration layers and applies the command line
// overrides in opts.
func loadConfig(cfgOpts []config.Option, opts Options) (*config.Config, error) {
	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		return nil, err
	}
	if opts.WrapWidth >= 0 {
		cfg.Layout.WrapWidth = opts.WrapWidth
	}
	if opts.Style != "" {
		cfg.Formats.Style = opts.Style
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Config returns the effective configuration.
func (a *Application) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Document returns the document being shown.
func (a *Application) Document() *document.Document {
	return a.doc
}

// Analyze highlights the whole document.
func (a *Application) Analyze(ctx context.Context) error {
	n, err := a.analyzer.Analyze(ctx, a.doc.Lines())
	if err != nil {
		return fmt.Errorf("highlighting: %w", err)
	}
	a.logger.Debug("highlighted", "language", a.analyzer.Language(), "lines", n)
	return nil
}

// SetBackend sets the surface to draw on. Must be called before Run.
func (a *Application) SetBackend(b backend.Backend) error {
	if a.running.Load() {
		return ErrAlreadyRunning
	}
	a.mu.Lock()
	a.backend = b
	a.mu.Unlock()
	return nil
}

// Close releases the document. It is safe to call more than once.
func (a *Application) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
		a.closeDoc()
	})
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/docline/internal/config/loader"
	"github.com/dshills/docline/internal/engine/document"
	"github.com/dshills/docline/internal/plugin/lua"
	"github.com/dshills/docline/internal/renderer/core"
	"github.com/dshills/docline/internal/renderer/format"
	"github.com/dshills/docline/internal/renderer/highlight"
	"github.com/dshills/docline/internal/renderer/layout"
)

const (
	// FileName is the user settings file inside the user config directory.
	FileName = "docline.toml"

	// ProjectFileName is the settings file at a project root.
	ProjectFileName = ".docline.toml"

	// MaxIncludeDepth limits nested @include chains.
	MaxIncludeDepth = 8
)

// Config holds docline settings.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Formats FormatsConfig `toml:"formats"`
	Indent  IndentConfig  `toml:"indent"`

	fs loader.FileSystem
}

// Default returns the built-in configuration.
func Default() *Config {
	s := layout.DefaultSettings()
	return &Config{
		Layout: LayoutConfig{
			TabWidth:   s.TabWidth,
			WrapWidth:  s.WrapWidth,
			WrapAtWord: s.WrapAtWord,
			CellWidth:  s.Metrics.CellWidth,
			LineHeight: s.Metrics.LineHeight,
		},
		fs: loader.DefaultFS(),
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs         loader.FileSystem
	userDir    string
	projectDir string
	env        loader.Loader
}

// WithFS reads configuration files from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithUserConfigDir overrides the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(o *options) {
		o.userDir = dir
	}
}

// WithProjectConfigDir sets the project root searched for ProjectFileName.
func WithProjectConfigDir(dir string) Option {
	return func(o *options) {
		o.projectDir = dir
	}
}

// WithEnv replaces the environment layer. nil disables it.
func WithEnv(l loader.Loader) Option {
	return func(o *options) {
		o.env = l
	}
}

// Load builds a Config from the defaults, the user and project files and
// the environment. Missing files are skipped.
func Load(opts ...Option) (*Config, error) {
	o := resolve(opts)

	merged := make(map[string]any)
	for _, path := range o.files() {
		m, err := loader.NewTOMLLoaderWithFS(o.fs, path).LoadWithIncludes(path, MaxIncludeDepth)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}
	if o.env != nil {
		m, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, m)
	}

	c := Default()
	if err := loader.Decode(merged, c); err != nil {
		return nil, err
	}
	c.fs = o.fs
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Paths returns the configuration files Load reads for opts, lowest
// precedence first. Included files are not listed.
func Paths(opts ...Option) []string {
	o := resolve(opts)
	return o.files()
}

func resolve(opts []Option) options {
	o := options{
		fs:      loader.DefaultFS(),
		userDir: defaultUserConfigDir(),
		env:     loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) files() []string {
	var files []string
	if o.userDir != "" {
		files = append(files, filepath.Join(o.userDir, FileName))
	}
	if o.projectDir != "" {
		files = append(files, filepath.Join(o.projectDir, ProjectFileName))
	}
	return files
}

func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docline")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "docline")
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	positive := []struct {
		path  string
		value int
	}{
		{"layout.tabWidth", c.Layout.TabWidth},
		{"layout.cellWidth", c.Layout.CellWidth},
		{"layout.lineHeight", c.Layout.LineHeight},
	}
	for _, p := range positive {
		if p.value < 1 {
			return &ValidationError{Path: p.path, Message: "must be at least 1", Value: p.value}
		}
	}
	if c.Layout.WrapWidth < 0 {
		return &ValidationError{Path: "layout.wrapWidth", Message: "must not be negative", Value: c.Layout.WrapWidth}
	}
	if c.Formats.Style != "" && !highlight.HasStyle(c.Formats.Style) {
		return &ValidationError{Path: "formats.style", Message: "unknown style", Value: c.Formats.Style}
	}
	for name, fs := range c.Formats.Colors {
		if _, err := fs.style(); err != nil {
			return &ValidationError{Path: "formats.colors." + name, Message: err.Error(), Value: fs}
		}
	}
	return nil
}

// LayoutSettings returns the layout settings.
func (c *Config) LayoutSettings() layout.Settings {
	return layout.Settings{
		TabWidth:   c.Layout.TabWidth,
		WrapWidth:  c.Layout.WrapWidth,
		WrapAtWord: c.Layout.WrapAtWord,
		Metrics: layout.Metrics{
			CellWidth:  c.Layout.CellWidth,
			LineHeight: c.Layout.LineHeight,
		},
	}
}

// Scheme builds the format scheme: the built-in formats, recolored by
// Style, then the per-format overrides.
func (c *Config) Scheme() (*format.Scheme, error) {
	scheme := format.DefaultScheme()
	if c.Formats.Style != "" {
		highlight.ApplyStyle(scheme, c.Formats.Style)
	}
	for name, fs := range c.Formats.Colors {
		if _, err := scheme.ID(name); err != nil {
			return nil, fmt.Errorf("formats.colors.%s: %w", name, err)
		}
		style, err := fs.style()
		if err != nil {
			return nil, fmt.Errorf("formats.colors.%s: %w", name, err)
		}
		scheme.Register(name, style)
	}
	return scheme, nil
}

func (fs FormatStyle) style() (core.Style, error) {
	s := core.DefaultStyle()
	if fs.Foreground != "" {
		c, err := core.ColorFromHex(fs.Foreground)
		if err != nil {
			return s, fmt.Errorf("foreground: %w", err)
		}
		s.Foreground = c
	}
	if fs.Background != "" {
		c, err := core.ColorFromHex(fs.Background)
		if err != nil {
			return s, fmt.Errorf("background: %w", err)
		}
		s.Background = c
	}
	if fs.Bold {
		s = s.Bold()
	}
	if fs.Italic {
		s = s.Italic()
	}
	if fs.Underline {
		s = s.Underline()
	}
	return s, nil
}

// IndentRule returns the configured Lua indent rule, or nil when none is
// configured. The caller closes a non-nil rule.
func (c *Config) IndentRule(opts ...lua.StateOption) (*lua.IndentRule, error) {
	src := c.Indent.Source
	if src == "" && c.Indent.Script != "" {
		fsys := c.fs
		if fsys == nil {
			fsys = loader.DefaultFS()
		}
		data, err := fsys.ReadFile(c.Indent.Script)
		if err != nil {
			return nil, fmt.Errorf("reading indent script: %w", err)
		}
		src = string(data)
	}
	if src == "" {
		return nil, nil
	}
	return lua.NewIndentRule(src, opts...)
}

// NewDocument creates a document holding text laid out with c. The
// returned function closes the document and releases the indent rule.
func (c *Config) NewDocument(text string, opts ...lua.StateOption) (*document.Document, func(), error) {
	scheme, err := c.Scheme()
	if err != nil {
		return nil, nil, err
	}
	rule, err := c.IndentRule(opts...)
	if err != nil {
		return nil, nil, err
	}

	docOpts := []document.Option{
		document.WithSettings(c.LayoutSettings()),
		document.WithScheme(scheme),
	}
	if rule != nil {
		docOpts = append(docOpts, document.WithIndentRule(rule))
	}
	d := document.FromString(text, docOpts...)
	return d, func() {
		d.Close()
		if rule != nil {
			rule.Close()
		}
	}, nil
}

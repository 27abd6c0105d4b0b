// Package commands holds the kong command tree of the docwiki binary.
package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docwiki/internal/config"
	"git.home.luguber.info/inful/docwiki/internal/docmodel"
	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/pages"
)

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "DOCWIKI_LOG_LEVEL"

// Global is shared state handed to every command's Run.
type Global struct {
	Logger *slog.Logger
	// Stdout receives user-facing output.
	Stdout io.Writer
	// Stderr receives log output.
	Stderr io.Writer
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// CLI is the root command with the global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docwiki.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render the page tree into the output directory"`
	Pages  PagesCmd  `cmd:"" help:"Show the page tree and where each page is written, without writing"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
	Watch  WatchCmd  `cmd:"" help:"Render, then render again whenever the configuration or module dump changes"`
}

// AfterApply sets up logging once flags are parsed. The level from the
// configuration file is applied later, when a command loads it.
func (c *CLI) AfterApply(g *Global) error {
	level, explicit, err := c.flagLevel()
	if err != nil {
		return err
	}
	if !explicit {
		level = slog.LevelInfo
	}
	g.Logger = newLogger(g.stderr(), level, config.DefaultLogFormat)
	slog.SetDefault(g.Logger)
	return nil
}

// flagLevel reports the level forced by -v or the environment, if any.
func (c *CLI) flagLevel() (slog.Level, bool, error) {
	if c.Verbose {
		return slog.LevelDebug, true, nil
	}
	if raw := strings.TrimSpace(os.Getenv(LogLevelEnv)); raw != "" {
		level, err := config.ParseLogLevel(raw)
		return level, err == nil, err
	}
	return slog.LevelInfo, false, nil
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// project is everything a render needs, loaded from the configuration.
type project struct {
	cfg     *config.Config
	modules []docmodel.Module
	tree    pages.Tree
}

// loadProject reads the configuration, the module dump and the page tree, in
// that order. modulesOverride replaces the configured module dump when set.
func loadProject(root *CLI, g *Global, modulesOverride string) (*project, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	applyLogging(root, g, cfg)

	if modulesOverride != "" {
		cfg.Modules = modulesOverride
	}
	modules, err := docmodel.Load(cfg.Modules)
	if err != nil {
		return nil, err
	}
	tree, err := pages.Build(cfg.Renderer.Pages)
	if err != nil {
		return nil, err
	}
	g.Logger.Debug("Loaded project",
		logfields.Config(cfg.Source()),
		logfields.Modules(len(modules)),
		slog.Int("pages", tree.Count()))
	return &project{cfg: cfg, modules: modules, tree: tree}, nil
}

// applyLogging switches to the configured level and format unless a flag or
// the environment already fixed the level.
func applyLogging(root *CLI, g *Global, cfg *config.Config) {
	level, explicit, err := root.flagLevel()
	if err != nil || !explicit {
		level, err = config.ParseLogLevel(cfg.Logging.Level)
		if err != nil {
			level = slog.LevelInfo
		}
	}
	g.Logger = newLogger(g.stderr(), level, cfg.Logging.Format)
	slog.SetDefault(g.Logger)
}

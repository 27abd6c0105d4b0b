// Package render drives one render cycle over a page tree: optional clean,
// traversal, and dispatch of every renderable page to a PageGenerator.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/docwiki/internal/config"
	"git.home.luguber.info/inful/docwiki/internal/docmodel"
	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/pages"
)

// ErrRenderInProgress is returned when Render is called while another render
// on the same Orchestrator has not finished.
var ErrRenderInProgress = errors.New("render already in progress")

// PageOptions are passed through to the generator untouched.
type PageOptions struct {
	InsertHeaderAnchors bool
	RenderTypehint      bool
	FrontMatter         bool
	// ContextDirectory is the base for relative static documents.
	ContextDirectory string
}

// Settings configure one render cycle.
type Settings struct {
	OutputRoot  string
	Extension   string
	CleanRender bool
	// DryRun resolves every page without cleaning or writing.
	DryRun  bool
	Options PageOptions
}

// SettingsFromConfig maps the renderer section of the configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		OutputRoot:  cfg.Renderer.OutputDirectory,
		Extension:   cfg.Renderer.Extension,
		CleanRender: cfg.Renderer.CleanRender,
		Options: PageOptions{
			InsertHeaderAnchors: cfg.Renderer.InsertHeaderAnchors,
			RenderTypehint:      cfg.Renderer.RenderTypehint,
			FrontMatter:         cfg.Renderer.FrontMatter,
			ContextDirectory:    cfg.ContextDirectory,
		},
	}
}

// PageRequest is everything a generator gets for one page.
type PageRequest struct {
	Page *pages.Node
	pages.Resolution
	Depth int
	// Children links from this page to the pages directly below it.
	Children []pages.NavLink
	Modules  []docmodel.Module
	Options  PageOptions
}

// PageGenerator produces and writes the text of a single page at req.Path.
// The orchestrator guarantees the parent directory exists and calls it at most
// once per page per cycle.
type PageGenerator interface {
	RenderDocument(req PageRequest, document string) error
	RenderModules(req PageRequest, selectors []string) error
}

// Report summarizes a render cycle.
type Report struct {
	Written         []string
	SkippedGrouping int
	SkippedEmpty    int
	Cleaned         int
	DryRun          bool
	Duration        time.Duration
}

// State of an Orchestrator.
type State int32

const (
	StateIdle State = iota
	StateRendering
)

func (s State) String() string {
	if s == StateRendering {
		return "rendering"
	}
	return "idle"
}

// Orchestrator runs render cycles, one at a time.
type Orchestrator struct {
	gen      PageGenerator
	recorder metrics.Recorder
	logger   *slog.Logger
	state    atomic.Int32
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New returns an idle orchestrator dispatching to gen.
func New(gen PageGenerator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:      gen,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State reports whether a render is running.
func (o *Orchestrator) State() State { return State(o.state.Load()) }

// Render runs one cycle. A layout collision or a failed clean aborts it before
// any page is written; a failed page aborts it after the pages before it.
// Nothing is retried or rolled back.
func (o *Orchestrator) Render(modules []docmodel.Module, tree pages.Tree, s Settings) (*Report, error) {
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateRendering)) {
		return nil, derrors.WrapError(ErrRenderInProgress, derrors.CategoryRuntime, "start render").Build()
	}
	defer o.state.Store(int32(StateIdle))

	start := time.Now()
	report := &Report{DryRun: s.DryRun}
	err := o.run(modules, tree, s, report)
	report.Duration = time.Since(start)

	o.recorder.ObserveRenderDuration(report.Duration)
	switch {
	case err != nil:
		o.recorder.IncRenderOutcome(metrics.OutcomeFailed)
		o.logger.Error("Render failed",
			logfields.OutputRoot(s.OutputRoot),
			slog.Int("written", len(report.Written)),
			logfields.Error(err))
	case s.DryRun:
		o.recorder.IncRenderOutcome(metrics.OutcomeDryRun)
	default:
		o.recorder.IncRenderOutcome(metrics.OutcomeSuccess)
		o.logger.Info("Render completed",
			logfields.OutputRoot(s.OutputRoot),
			slog.Int("written", len(report.Written)),
			slog.Int("skipped", report.SkippedGrouping+report.SkippedEmpty),
			logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	}
	return report, err
}

func (o *Orchestrator) run(modules []docmodel.Module, tree pages.Tree, s Settings, report *Report) error {
	if err := tree.CheckLayout(s.Extension); err != nil {
		return err
	}
	if s.CleanRender && !s.DryRun {
		cleanStart := time.Now()
		removed, err := Clean(s.OutputRoot)
		o.recorder.ObserveCleanDuration(time.Since(cleanStart))
		o.recorder.AddCleanedFiles(removed)
		report.Cleaned = removed
		if err != nil {
			return err
		}
		o.logger.Debug("Cleaned output directory", logfields.OutputRoot(s.OutputRoot), slog.Int("removed", removed))
	}

	for item := range pages.Walk(tree, s.OutputRoot, s.Extension) {
		if !item.Writable() {
			report.SkippedGrouping++
			o.recorder.IncPageResult(metrics.PageSkippedGrouping)
			continue
		}
		if !item.Node.HasContent() {
			report.SkippedEmpty++
			o.recorder.IncPageResult(metrics.PageSkippedEmpty)
			o.logger.Debug("Skipping page without content", logfields.Page(item.Node.Name), logfields.Depth(item.Depth()))
			continue
		}
		if s.DryRun {
			report.Written = append(report.Written, item.Path)
			continue
		}
		if err := o.renderPage(item, modules, s); err != nil {
			o.recorder.IncPageResult(metrics.PageFailed)
			return err
		}
		report.Written = append(report.Written, item.Path)
		o.recorder.IncPageResult(metrics.PageWritten)
	}
	return nil
}

func (o *Orchestrator) renderPage(item pages.Item, modules []docmodel.Module, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(item.Path), 0o755); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create page directory").
			Fatal().
			WithContext("path", item.Path).
			Build()
	}

	req := PageRequest{
		Page:       item.Node,
		Resolution: item.Resolution,
		Depth:      item.Depth(),
		Children:   pages.ChildLinks(item, s.OutputRoot, s.Extension),
		Modules:    modules,
		Options:    s.Options,
	}

	var err error
	switch src := item.Node.Source; src.Kind {
	case pages.SourceDocument:
		err = o.gen.RenderDocument(req, src.Document)
	case pages.SourceSelector:
		err = o.gen.RenderModules(req, src.Selectors)
	default:
		panic(fmt.Sprintf("render: unhandled content source %v", src.Kind))
	}
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "render page").
			WithRetry(derrors.RetryRerun).
			WithContext("page", item.Node.Name).
			WithContext("path", item.Path).
			Build()
	}
	o.logger.Debug("Rendered page",
		logfields.Page(item.Node.Name),
		logfields.RelPath(item.RelPath),
		slog.String("source", item.Node.Source.String()))
	return nil
}

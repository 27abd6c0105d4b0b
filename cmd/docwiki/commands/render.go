package commands

import (
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/pagegen"
	"git.home.luguber.info/inful/docwiki/internal/render"
)

// RenderFlags are the render options shared by 'render' and 'watch'.
type RenderFlags struct {
	Output  string `short:"o" help:"Output directory (overrides renderer.output_directory)" type:"path"`
	NoClean bool   `name:"no-clean" help:"Keep files from previous renders in the output directory"`
	Modules string `help:"Module dump to render (overrides modules)" type:"path"`
}

func (f RenderFlags) settings(p *project) render.Settings {
	s := render.SettingsFromConfig(p.cfg)
	if f.Output != "" {
		s.OutputRoot = f.Output
	}
	if f.NoClean {
		s.CleanRender = false
	}
	return s
}

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	RenderFlags `embed:""`

	DryRun bool `name:"dry-run" help:"Resolve pages and list what would be written"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	p, err := loadProject(root, g, r.Modules)
	if err != nil {
		return err
	}
	settings := r.settings(p)
	settings.DryRun = r.DryRun

	report, err := renderOnce(g, p, settings)
	if err != nil {
		return err
	}

	out := g.stdout()
	if report.DryRun {
		for _, path := range report.Written {
			_, _ = fmt.Fprintln(out, path)
		}
		return nil
	}
	_, _ = fmt.Fprintf(out, "Rendered %d pages to %s\n", len(report.Written), settings.OutputRoot)
	return nil
}

// renderOnce runs a render cycle and exports metrics when a textfile is configured.
func renderOnce(g *Global, p *project, settings render.Settings) (*render.Report, error) {
	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		registry *prom.Registry
	)
	if p.cfg.Metrics.Textfile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	orchestrator := render.New(pagegen.New(),
		render.WithLogger(g.Logger),
		render.WithRecorder(recorder))

	g.Logger.Info("Starting render",
		logfields.OutputRoot(settings.OutputRoot),
		logfields.Modules(len(p.modules)),
		slog.Bool("clean", settings.CleanRender),
		slog.Bool("dry_run", settings.DryRun))

	report, renderErr := orchestrator.Render(p.modules, p.tree, settings)

	if registry != nil {
		if err := metrics.WriteTextfile(p.cfg.Metrics.Textfile, registry); err != nil {
			g.Logger.Warn("Failed to write metrics textfile",
				logfields.File(p.cfg.Metrics.Textfile),
				logfields.Error(err))
		}
	}
	if renderErr != nil {
		if !derrors.IsClassified(renderErr) {
			renderErr = derrors.WrapError(renderErr, derrors.CategoryInternal, "render").Build()
		}
		return report, renderErr
	}
	return report, nil
}

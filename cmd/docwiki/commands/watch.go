package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/pages"
	"git.home.luguber.info/inful/docwiki/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	RenderFlags `embed:""`

	Interval time.Duration `help:"Also render on this interval (0 disables)" default:"0s"`
	Debounce time.Duration `help:"Quiet period after a change before rendering" default:"500ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, g, root)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	// The first load must succeed; later failures are logged and retried on
	// the next change.
	p, err := loadProject(root, g, w.Modules)
	if err != nil {
		return err
	}
	if _, err := renderOnce(g, p, w.settings(p)); err != nil {
		g.Logger.Error("Initial render failed", logfields.Error(err))
	}

	rerender := func(_ context.Context, reason string) error {
		p, err := loadProject(root, g, w.Modules)
		if err != nil {
			return err
		}
		g.Logger.Debug("Re-rendering", logfields.Reason(reason))
		_, err = renderOnce(g, p, w.settings(p))
		return err
	}

	watcher, err := watch.New(rerender, p.watchedFiles(root.Config),
		watch.WithInterval(w.Interval),
		watch.WithDebounce(w.Debounce),
		watch.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// watchedFiles lists the render inputs: config and module dump plus every
// static document a page copies. The set is fixed when watching
// starts; documents added to the configuration later are picked up by the
// next restart.
func (p *project) watchedFiles(configPath string) []string {
	files := []string{configPath, p.cfg.Modules}
	for item := range pages.Walk(p.tree, "", "") {
		node := item.Node
		if !node.Renderable() || node.Source.Kind != pages.SourceDocument {
			continue
		}
		doc := node.Source.Document
		if !filepath.IsAbs(doc) {
			doc = filepath.Join(p.cfg.ContextDirectory, doc)
		}
		files = append(files, doc)
	}
	return files
}

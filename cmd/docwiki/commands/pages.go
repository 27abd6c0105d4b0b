package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docwiki/internal/pages"
)

// PagesCmd implements the 'pages' command.
type PagesCmd struct{}

func (c *PagesCmd) Run(g *Global, root *CLI) error {
	p, err := loadProject(root, g, "")
	if err != nil {
		return err
	}
	if err := p.tree.CheckLayout(p.cfg.Renderer.Extension); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.stdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DEPTH\tTITLE\tPATH")
	for item := range pages.Walk(p.tree, p.cfg.Renderer.OutputDirectory, p.cfg.Renderer.Extension) {
		_, _ = fmt.Fprintf(tw, "%d\t%s%s\t%s\n",
			item.Depth(),
			strings.Repeat("  ", item.Depth()),
			item.Node.Title,
			describe(item))
	}
	return tw.Flush()
}

func describe(item pages.Item) string {
	switch {
	case !item.Writable():
		return "(group)"
	case !item.Node.HasContent():
		return item.RelPath + " (no content, skipped)"
	default:
		return item.RelPath
	}
}

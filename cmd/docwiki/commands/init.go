package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docwiki/internal/config"
	"git.home.luguber.info/inful/docwiki/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	g.Logger.Debug("Initializing configuration", logfields.Config(root.Config))
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.stdout(), "Wrote example configuration to %s\n", root.Config)
	return nil
}

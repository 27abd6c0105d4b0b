package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docwiki/cmd/docwiki/commands"
	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout, Stderr: os.Stderr}

	ctx := kong.Parse(&cli,
		kong.Name("docwiki"),
		kong.Description("Render a configured page hierarchy of API docs and static documents into a Markdown wiki."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := ctx.Run(&cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}

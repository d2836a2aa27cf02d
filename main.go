package main

import (
	"github.com/alecthomas/kong"
	"github.com/lox/ghsearch/cmd"
)

var version = "dev"

func main() {
	cli := &cmd.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("ghsearch"),
		kong.Description("Search GitHub users from the terminal"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	runCtx := &cmd.Context{Debug: cli.Debug, LogFile: cli.LogFile, Version: version}
	err := ctx.Run(runCtx)
	runCtx.Close()
	ctx.FatalIfErrorf(err)
}

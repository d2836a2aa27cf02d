package cmd

import (
	"github.com/lox/ghsearch/internal/cli"
	"github.com/lox/ghsearch/internal/mcpserver"
)

type MCPCmd struct{}

func (c *MCPCmd) Run(ctx *Context) error {
	log, err := ctx.Logger()
	if err != nil {
		return err
	}
	ctrl, err := cli.RequireController(log)
	if err != nil {
		return err
	}
	return mcpserver.New(ctrl, ctx.Version, log).ServeStdio()
}

package cmd

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/lox/ghsearch/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type CLI struct {
	Debug   bool             `help:"Enable debug logging" env:"GHSEARCH_DEBUG"`
	LogFile string           `help:"Write logs to this file" name:"log-file" type:"path"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Search SearchCmd `cmd:"" help:"Search GitHub users"`
	Browse BrowseCmd `cmd:"" help:"Search GitHub users interactively and scroll through results"`
	Config ConfigCmd `cmd:"" help:"Manage configuration"`
	MCP    MCPCmd    `cmd:"" name:"mcp" help:"Serve search tools over MCP stdio"`
}

type Context struct {
	Debug   bool
	LogFile string
	Version string
	JSON    bool

	logger *zap.Logger
	flush  func()
}

// Logger returns the run's logger, building it on first use.
func (c *Context) Logger() (*zap.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	logger, flush, err := logging.New(c.Debug, c.LogFile)
	if err != nil {
		return nil, err
	}
	c.logger, c.flush = logger, flush
	return logger, nil
}

func (c *Context) Close() {
	if c.flush != nil {
		c.flush()
	}
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

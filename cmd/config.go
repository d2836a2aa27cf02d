package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/lox/ghsearch/internal/config"
	"github.com/lox/ghsearch/internal/output"
)

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"withargs" help:"Show the effective configuration"`
	Set  ConfigSetCmd  `cmd:"" help:"Set a configuration value"`
	Path ConfigPathCmd `cmd:"" help:"Print the configuration file path"`
}

type ConfigShowCmd struct {
	JSON bool `help:"Output as JSON" short:"j"`
}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	ctx.JSON = c.JSON
	return runConfigShow(ctx)
}

func runConfigShow(ctx *Context) error {
	cfg, err := config.Load()
	if err != nil {
		output.PrintError(err)
		return err
	}
	path, err := config.Path()
	if err != nil {
		output.PrintError(err)
		return err
	}

	if ctx.JSON {
		return writeJSON(map[string]any{
			"config_path":     path,
			"base_url":        cfg.API.BaseURL,
			"backend":         cfg.API.Backend,
			"timeout_seconds": cfg.API.TimeoutSeconds,
			"has_token":       cfg.API.Token != "",
			"page_size":       cfg.Search.PageSize,
			"max_results":     cfg.Search.MaxResults,
		})
	}

	labelStyle := color.New(color.Faint)

	_, _ = labelStyle.Print("Config path: ")
	fmt.Println(path)

	_, _ = labelStyle.Print("Base URL:    ")
	fmt.Println(cfg.API.BaseURL)

	_, _ = labelStyle.Print("Backend:     ")
	fmt.Println(cfg.API.Backend)

	_, _ = labelStyle.Print("Timeout:     ")
	fmt.Printf("%ds\n", cfg.API.TimeoutSeconds)

	_, _ = labelStyle.Print("Token:       ")
	fmt.Println(maskToken(cfg.API.Token))

	_, _ = labelStyle.Print("Page size:   ")
	fmt.Println(cfg.Search.PageSize)

	_, _ = labelStyle.Print("Max results: ")
	fmt.Println(cfg.Search.MaxResults)

	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Key to set (api.base_url, api.token, api.backend, api.timeout_seconds, search.page_size, search.max_results)"`
	Value string `arg:"" help:"New value"`
}

func (c *ConfigSetCmd) Run(ctx *Context) error {
	return runConfigSet(c.Key, c.Value)
}

func runConfigSet(key, value string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		output.PrintError(err)
		return err
	}
	if err := config.Set(&cfg, key, value); err != nil {
		output.PrintError(err)
		return err
	}
	if err := config.Save(cfg); err != nil {
		output.PrintError(err)
		return err
	}

	shown := value
	if strings.EqualFold(strings.TrimSpace(key), "api.token") {
		shown = maskToken(value)
	}
	output.PrintSuccess(fmt.Sprintf("Set %s = %s", key, shown))
	return nil
}

type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(ctx *Context) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func maskToken(token string) string {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return "(not set)"
	case len(token) <= 8:
		return strings.Repeat("*", len(token))
	default:
		return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

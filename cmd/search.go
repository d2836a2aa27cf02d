package cmd

import (
	"context"
	"fmt"

	"github.com/lox/ghsearch/internal/cli"
	"github.com/lox/ghsearch/internal/output"
	"github.com/lox/ghsearch/internal/search"
)

type SearchCmd struct {
	Query  string `arg:"" help:"Search query (GitHub user search syntax)"`
	Pages  int    `help:"Number of pages to load (at least 1)" short:"p" default:"1"`
	All    bool   `help:"Load pages until every available result is fetched (overrides --pages)"`
	Format string `help:"Output format (table, json, yaml, markdown)" short:"f" default:"table"`
	JSON   bool   `help:"Output as JSON" short:"j"`
}

func (c *SearchCmd) Run(ctx *Context) error {
	ctx.JSON = c.JSON

	format, err := output.ParseFormat(c.Format)
	if err != nil {
		output.PrintError(err)
		return err
	}
	if ctx.JSON {
		format = output.FormatJSON
	}

	pages, err := pagesToLoad(c.Pages, c.All)
	if err != nil {
		output.PrintError(err)
		return err
	}
	return runSearch(ctx, c.Query, pages, format)
}

// pagesToLoad maps the page flags onto runSearch's page count, where 0 means
// every page.
func pagesToLoad(pages int, all bool) (int, error) {
	if all {
		return 0, nil
	}
	if pages < 1 {
		return 0, fmt.Errorf("--pages must be at least 1 (got %d); use --all to load every page", pages)
	}
	return pages, nil
}

// runSearch submits query and then keeps issuing continuations until pages
// pages are loaded. pages <= 0 loads everything the API will serve.
func runSearch(ctx *Context, query string, pages int, format output.Format) error {
	if _, err := search.ValidateQuery(query); err != nil {
		output.PrintError(err)
		return err
	}

	log, err := ctx.Logger()
	if err != nil {
		return err
	}
	ctrl, err := cli.RequireController(log)
	if err != nil {
		output.PrintError(err)
		return err
	}

	bgCtx := context.Background()
	if err := ctrl.Execute(bgCtx, ctrl.StartSearch(query)); err != nil {
		output.PrintError(err)
		return err
	}

	var loadErr error
	for loaded := 1; pages <= 0 || loaded < pages; loaded++ {
		req := ctrl.LoadMore()
		if req == nil {
			break
		}
		if err := ctrl.Execute(bgCtx, req); err != nil {
			loadErr = fmt.Errorf("load page %d: %w", req.Tag.Page, err)
			break
		}
	}

	snap := ctrl.Snapshot()
	if err := output.PrintSearchResults(output.NewSearchResults(snap), format); err != nil {
		return err
	}
	if loadErr != nil {
		output.PrintWarning(fmt.Sprintf("Showing the %d results loaded before the failure", len(snap.Items)))
		output.PrintError(loadErr)
		return loadErr
	}
	if snap.HasMore && format == output.FormatTable {
		output.PrintInfo("More results available; use --pages or --all to load them")
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/lox/ghsearch/internal/api"
	"github.com/lox/ghsearch/internal/config"
	"github.com/lox/ghsearch/internal/search"
	"go.uber.org/zap"
)

// NewFetcher builds the search backend selected by cfg.API.Backend.
func NewFetcher(cfg config.Config, log *zap.Logger) (search.Fetcher, error) {
	opts := []api.Option{
		api.WithMaxResults(cfg.Search.MaxResults),
		api.WithLogger(log),
	}

	switch cfg.API.Backend {
	case config.BackendGoGitHub:
		client, err := api.NewGitHubClient(cfg.API, opts...)
		if err != nil {
			return nil, fmt.Errorf("create go-github client: %w", err)
		}
		return client, nil
	case config.BackendREST, "":
		client, err := api.NewClient(cfg.API, opts...)
		if err != nil {
			return nil, fmt.Errorf("create API client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown api.backend %q", cfg.API.Backend)
	}
}

func NewController(cfg config.Config, log *zap.Logger) (*search.Controller, error) {
	fetcher, err := NewFetcher(cfg, log)
	if err != nil {
		return nil, err
	}
	return search.NewController(fetcher,
		search.WithPageSize(cfg.Search.PageSize),
		search.WithLogger(log),
	), nil
}

// RequireController loads configuration and returns a ready controller.
func RequireController(log *zap.Logger) (*search.Controller, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewController(cfg, log)
}

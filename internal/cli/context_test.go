package cli

import (
	"testing"

	"github.com/lox/ghsearch/internal/api"
	"github.com/lox/ghsearch/internal/config"
	"go.uber.org/zap"
)

func TestNewFetcherSelectsBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		backend string
		check   func(any) bool
	}{
		{backend: config.BackendREST, check: func(v any) bool { _, ok := v.(*api.Client); return ok }},
		{backend: "", check: func(v any) bool { _, ok := v.(*api.Client); return ok }},
		{backend: config.BackendGoGitHub, check: func(v any) bool { _, ok := v.(*api.GitHubClient); return ok }},
	}

	for _, tt := range tests {
		cfg := config.Default()
		cfg.API.Backend = tt.backend

		f, err := NewFetcher(cfg, zap.NewNop())
		if err != nil {
			t.Fatalf("backend %q: %v", tt.backend, err)
		}
		if !tt.check(f) {
			t.Fatalf("backend %q: unexpected fetcher type %T", tt.backend, f)
		}
	}
}

func TestNewFetcherRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.API.Backend = "graphql"
	if _, err := NewFetcher(cfg, zap.NewNop()); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

func TestNewControllerUsesConfiguredPageSize(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Search.PageSize = 30
	c, err := NewController(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if c.PageSize() != 30 {
		t.Fatalf("page size mismatch: %d", c.PageSize())
	}
}

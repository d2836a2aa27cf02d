package cmd

import (
	"testing"

	"github.com/lox/ghsearch/internal/config"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "(not set)"},
		{"   ", "(not set)"},
		{"abc", "***"},
		{"12345678", "********"},
		{"ghp_abcdefgh1234", "ghp_********1234"},
	}
	for _, tt := range tests {
		if got := maskToken(tt.in); got != tt.want {
			t.Fatalf("maskToken(%q): got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunConfigSetPersistsValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet("search.page_size", "25"); err != nil {
		t.Fatalf("set page size: %v", err)
	}
	if err := runConfigSet("api.token", "ghp_secret"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("load file config: %v", err)
	}
	if cfg.Search.PageSize != 25 {
		t.Fatalf("page size mismatch: got %d", cfg.Search.PageSize)
	}
	if cfg.API.Token != "ghp_secret" {
		t.Fatalf("token mismatch: got %q", cfg.API.Token)
	}
}

func TestRunConfigSetRejectsUnknownKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet("api.nope", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if err := runConfigSet("api.backend", "graphql"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

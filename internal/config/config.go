package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	configDirName  = ".config/ghsearch"
	configFileName = "config.json"

	DefaultBaseURL        = "https://api.github.com"
	DefaultTimeoutSeconds = 20
	DefaultPageSize       = 10
	DefaultMaxResults     = 1000

	// GitHub rejects per_page values above 100.
	MaxPageSize = 100

	BackendREST     = "rest"
	BackendGoGitHub = "go-github"
)

type Config struct {
	API    APIConfig    `json:"api,omitempty"`
	Search SearchConfig `json:"search,omitempty"`
}

type APIConfig struct {
	BaseURL        string `json:"base_url,omitempty"`
	Token          string `json:"token,omitempty"`
	Backend        string `json:"backend,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

type SearchConfig struct {
	PageSize   int `json:"page_size,omitempty"`
	MaxResults int `json:"max_results,omitempty"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			Backend:        BackendREST,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Search: SearchConfig{
			PageSize:   DefaultPageSize,
			MaxResults: DefaultMaxResults,
		},
	}
}

// Load reads the config file and applies environment overrides.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return cfg, validate(cfg)
}

// LoadFile reads the config file only, ignoring the environment.
func LoadFile() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, err
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	normalize(&cfg)
	return cfg, nil
}

func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	normalize(&cfg)
	if err := validate(cfg); err != nil {
		return err
	}

	merged := map[string]any{}
	if existing, err := os.ReadFile(path); err == nil {
		if len(existing) > 0 {
			if err := json.Unmarshal(existing, &merged); err != nil {
				return err
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	apiMap := sectionMap(merged, "api")
	apiMap["base_url"] = cfg.API.BaseURL
	apiMap["backend"] = cfg.API.Backend
	apiMap["timeout_seconds"] = cfg.API.TimeoutSeconds
	if cfg.API.Token == "" {
		delete(apiMap, "token")
	} else {
		apiMap["token"] = cfg.API.Token
	}
	merged["api"] = apiMap

	searchMap := sectionMap(merged, "search")
	searchMap["page_size"] = cfg.Search.PageSize
	searchMap["max_results"] = cfg.Search.MaxResults
	merged["search"] = searchMap

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Set updates a single dotted key such as "api.token" or "search.page_size".
func Set(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.token":
		cfg.API.Token = value
	case "api.backend":
		cfg.API.Backend = value
	case "api.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("api.timeout_seconds must be an integer: %w", err)
		}
		cfg.API.TimeoutSeconds = n
	case "search.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("search.page_size must be an integer: %w", err)
		}
		cfg.Search.PageSize = n
	case "search.max_results":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("search.max_results must be an integer: %w", err)
		}
		cfg.Search.MaxResults = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	normalize(cfg)
	return validate(*cfg)
}

func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

func sectionMap(merged map[string]any, name string) map[string]any {
	out := map[string]any{}
	if existing, ok := merged[name].(map[string]any); ok {
		for k, v := range existing {
			out[k] = v
		}
	}
	return out
}

func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if s := os.Getenv("GHSEARCH_API_BASE_URL"); s != "" {
		cfg.API.BaseURL = s
	}
	if s := os.Getenv("GHSEARCH_API_TOKEN"); s != "" {
		cfg.API.Token = s
	} else if s := os.Getenv("GITHUB_TOKEN"); s != "" && cfg.API.Token == "" {
		cfg.API.Token = s
	}
	if s := os.Getenv("GHSEARCH_API_BACKEND"); s != "" {
		cfg.API.Backend = s
	}
	if s := os.Getenv("GHSEARCH_PAGE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			cfg.Search.PageSize = n
		}
	}
}

func normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.API.Token = strings.TrimSpace(cfg.API.Token)
	cfg.API.Backend = strings.ToLower(strings.TrimSpace(cfg.API.Backend))
	if cfg.API.Backend == "" {
		cfg.API.Backend = BackendREST
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if cfg.Search.PageSize <= 0 {
		cfg.Search.PageSize = DefaultPageSize
	}
	if cfg.Search.PageSize > MaxPageSize {
		cfg.Search.PageSize = MaxPageSize
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
}

func validate(cfg Config) error {
	switch cfg.API.Backend {
	case BackendREST, BackendGoGitHub:
		return nil
	default:
		return fmt.Errorf("unknown api.backend %q (want %q or %q)", cfg.API.Backend, BackendREST, BackendGoGitHub)
	}
}

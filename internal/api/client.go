package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lox/ghsearch/internal/config"
	"go.uber.org/zap"
)

const (
	searchUsersPath  = "/search/users"
	githubAPIVersion = "2022-11-28"
	userAgent        = "ghsearch"
)

// Client talks to the GitHub REST search endpoint directly.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxResults int
	log        *zap.Logger
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	maxResults int
	log        *zap.Logger
}

// WithHTTPClient replaces the default HTTP client, which times out after
// cfg.TimeoutSeconds.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithMaxResults caps reported totals. GitHub serves at most 1000 results
// per search regardless of total_count.
func WithMaxResults(n int) Option {
	return func(o *options) { o.maxResults = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(cfg config.APIConfig, opts []Option) options {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSeconds
	}
	o := options{maxResults: config.DefaultMaxResults}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

func NewClient(cfg config.APIConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base URL %q", cfg.BaseURL)
	}

	o := buildOptions(cfg, opts)
	return &Client{
		httpClient: o.httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxResults: o.maxResults,
		log:        o.log.Named("api"),
	}, nil
}

// FetchPage requests one page of users matching query. It issues exactly one
// HTTP request and keeps no state between calls.
func (c *Client) FetchPage(ctx context.Context, query string, page, pageSize int) (*SearchPage, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(pageSize))

	var body struct {
		TotalCount *int    `json:"total_count"`
		Incomplete bool    `json:"incomplete_results"`
		Items      *[]User `json:"items"`
	}
	if err := c.doRequest(ctx, http.MethodGet, searchUsersPath+"?"+params.Encode(), &body); err != nil {
		return nil, err
	}
	if body.TotalCount == nil {
		return nil, &DecodeError{Err: errors.New("missing total_count")}
	}
	if body.Items == nil {
		return nil, &DecodeError{Err: errors.New("missing items")}
	}

	return &SearchPage{
		Items:      *body.Items,
		TotalCount: clampTotal(*body.TotalCount, c.maxResults),
		Incomplete: body.Incomplete,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, out any) error {
	op := method + " " + strings.SplitN(path, "?", 2)[0]

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/vnd.github+json")
	req.Header.Set("x-github-api-version", githubAPIVersion)
	req.Header.Set("user-agent", userAgent)
	if c.token != "" {
		req.Header.Set("authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("op", op), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	c.log.Debug("request completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		message := strings.TrimSpace(string(respBody))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		} else {
			var errResp struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(respBody, &errResp); err == nil && strings.TrimSpace(errResp.Message) != "" {
				message = strings.TrimSpace(errResp.Message)
			}
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if len(respBody) == 0 {
		return &DecodeError{Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

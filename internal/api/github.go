package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v73/github"
	"github.com/lox/ghsearch/internal/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GitHubClient serves the same search through go-github. It is selected with
// api.backend = "go-github".
type GitHubClient struct {
	gh         *github.Client
	maxResults int
	log        *zap.Logger
}

func NewGitHubClient(cfg config.APIConfig, opts ...Option) (*GitHubClient, error) {
	o := buildOptions(cfg, opts)

	httpClient := o.httpClient
	if token := strings.TrimSpace(cfg.Token); token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, o.httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = o.httpClient.Timeout
	}

	gh := github.NewClient(httpClient)
	gh.UserAgent = userAgent

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL != "" && baseURL != config.DefaultBaseURL {
		u, err := url.Parse(baseURL + "/")
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid api base URL %q", cfg.BaseURL)
		}
		gh.BaseURL = u
	}

	return &GitHubClient{
		gh:         gh,
		maxResults: o.maxResults,
		log:        o.log.Named("go-github"),
	}, nil
}

func (c *GitHubClient) FetchPage(ctx context.Context, query string, page, pageSize int) (*SearchPage, error) {
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: pageSize},
	}
	result, resp, err := c.gh.Search.Users(ctx, query, opts)
	if err != nil {
		c.log.Debug("search failed", zap.String("query", query), zap.Int("page", page), zap.Error(err))
		return nil, classifyGitHubError("GET "+searchUsersPath, err)
	}
	if resp != nil {
		c.log.Debug("search completed",
			zap.String("query", query),
			zap.Int("page", page),
			zap.Int("status", resp.StatusCode),
			zap.Int("rate_remaining", resp.Rate.Remaining),
		)
	}
	if result == nil || result.Total == nil {
		return nil, &DecodeError{Err: errors.New("missing total_count")}
	}
	if result.Users == nil {
		return nil, &DecodeError{Err: errors.New("missing items")}
	}

	items := make([]User, 0, len(result.Users))
	for _, u := range result.Users {
		if u == nil {
			continue
		}
		items = append(items, User{
			ID:        u.GetID(),
			Login:     u.GetLogin(),
			Type:      u.GetType(),
			AvatarURL: u.GetAvatarURL(),
			HTMLURL:   u.GetHTMLURL(),
		})
	}

	return &SearchPage{
		Items:      items,
		TotalCount: clampTotal(result.GetTotal(), c.maxResults),
		Incomplete: result.GetIncompleteResults(),
	}, nil
}

func classifyGitHubError(op string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{Status: responseStatus(rateErr.Response), Message: messageOr(rateErr.Message, rateErr.Response)}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &APIError{Status: responseStatus(abuseErr.Response), Message: messageOr(abuseErr.Message, abuseErr.Response)}
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return &APIError{Status: responseStatus(respErr.Response), Message: messageOr(respErr.Message, respErr.Response)}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecodeError{Err: err}
	}

	return &NetworkError{Op: op, Err: err}
}

func responseStatus(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func messageOr(message string, resp *http.Response) string {
	if message = strings.TrimSpace(message); message != "" {
		return message
	}
	return http.StatusText(responseStatus(resp))
}

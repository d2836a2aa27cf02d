// Package search holds the pagination state machine behind every search
// front end: it decides when a submission is a fresh search and when a scroll
// event becomes a continuation, and it keeps late responses from leaking
// into a newer result set.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lox/ghsearch/internal/api"
	"go.uber.org/zap"
)

// Controller owns the query, page counter, accumulated results, total count
// and fetch status. It is safe for concurrent use, but all mutation happens
// inside its methods.
type Controller struct {
	mu       sync.Mutex
	fetcher  Fetcher
	pageSize int
	log      *zap.Logger
	onChange func(Snapshot)

	query   string
	page    int
	loaded  int
	items   []api.User
	total   int
	status  Status
	lastErr error

	current  Tag
	inFlight bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize fixes the page size for the controller's lifetime.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the logger; the controller logs under the "search" name.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController returns an idle controller that fetches pages through fetcher.
func NewController(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		pageSize: DefaultPageSize,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("search")
	return c
}

// ValidateQuery trims query and rejects it when nothing is left.
func ValidateQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}

// OnChange registers fn to receive a snapshot after every state transition.
// fn runs on the goroutine that caused the transition, outside the lock.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// StartSearch begins a fresh search for query and returns the request to
// run. Empty queries return nil and leave the controller untouched. A fresh
// search always supersedes whatever request is in flight, including one for
// the same query.
func (c *Controller) StartSearch(query string) *Request {
	q, err := ValidateQuery(query)
	if err != nil {
		c.log.Debug("ignoring empty query")
		return nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.log.Debug("superseding in-flight request",
			zap.String("query", c.current.Query),
			zap.Int("page", c.current.Page),
		)
	}
	c.query = q
	c.page = 1
	c.loaded = 0
	c.items = nil
	c.total = 0
	c.status = StatusLoading
	c.lastErr = nil
	req := c.newRequestLocked()
	snap, notify := c.snapshotLocked(), c.onChange
	c.mu.Unlock()

	c.log.Debug("search started", zap.String("query", q), zap.Stringer("request", req.Tag.ID))
	if notify != nil {
		notify(snap)
	}
	return req
}

// LoadMore requests the next page of the active query. It returns nil
// without side effects while a request is loading or once every result the
// server reported has been fetched.
func (c *Controller) LoadMore() *Request {
	c.mu.Lock()
	if c.status == StatusLoading || c.query == "" || len(c.items) >= c.total {
		c.mu.Unlock()
		return nil
	}
	c.page++
	c.status = StatusLoading
	c.lastErr = nil
	req := c.newRequestLocked()
	snap, notify := c.snapshotLocked(), c.onChange
	c.mu.Unlock()

	c.log.Debug("loading more",
		zap.String("query", req.Tag.Query),
		zap.Int("page", req.Tag.Page),
		zap.Stringer("request", req.Tag.ID),
	)
	if notify != nil {
		notify(snap)
	}
	return req
}

// Apply folds a response into the controller. Responses whose tag is no
// longer current are dropped and Apply reports false.
func (c *Controller) Apply(resp Response) bool {
	c.mu.Lock()
	if !c.inFlight || resp.Tag != c.current {
		c.mu.Unlock()
		c.log.Debug("dropping stale response",
			zap.String("query", resp.Tag.Query),
			zap.Int("page", resp.Tag.Page),
			zap.Stringer("request", resp.Tag.ID),
		)
		return false
	}
	c.inFlight = false

	if resp.Err != nil || resp.Page == nil {
		err := resp.Err
		if err == nil {
			err = errors.New("search returned no page")
		}
		c.status = StatusError
		c.lastErr = err
		// Rewind so the next LoadMore asks for the page that failed.
		c.page = c.loaded
		if c.page == 0 {
			c.page = 1
		}
		c.log.Warn("search request failed",
			zap.String("query", resp.Tag.Query),
			zap.Int("page", resp.Tag.Page),
			zap.String("kind", api.Kind(err)),
			zap.Error(err),
		)
	} else {
		if resp.Tag.Page == 1 {
			c.items = append([]api.User(nil), resp.Page.Items...)
		} else {
			c.items = append(c.items, resp.Page.Items...)
		}
		c.total = resp.Page.TotalCount
		// An empty continuation means the server has nothing past what we hold,
		// whatever total_count claims.
		if resp.Tag.Page > 1 && len(resp.Page.Items) == 0 && c.total > len(c.items) {
			c.log.Warn("empty page before reported total, ending pagination",
				zap.Int("reported", c.total),
				zap.Int("fetched", len(c.items)),
				zap.Int("page", resp.Tag.Page),
			)
			c.total = len(c.items)
		}
		if c.total < len(c.items) {
			c.log.Warn("reported total below fetched results, clamping",
				zap.Int("reported", c.total),
				zap.Int("fetched", len(c.items)),
			)
			c.total = len(c.items)
		}
		c.loaded = resp.Tag.Page
		c.status = StatusIdle
		c.lastErr = nil
		c.log.Debug("page applied",
			zap.String("query", resp.Tag.Query),
			zap.Int("page", resp.Tag.Page),
			zap.Int("received", len(resp.Page.Items)),
			zap.Int("fetched", len(c.items)),
			zap.Int("total", c.total),
		)
	}

	snap, notify := c.snapshotLocked(), c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
	return true
}

// Execute runs req and applies its response. It returns the fetch error only
// when the response was current; stale responses and nil requests return nil.
func (c *Controller) Execute(ctx context.Context, req *Request) error {
	if req == nil {
		return nil
	}
	resp := req.Do(ctx)
	if !c.Apply(resp) {
		return nil
	}
	return resp.Err
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Err returns the error of the last failed request, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// PageSize reports the fixed page size.
func (c *Controller) PageSize() int { return c.pageSize }

func (c *Controller) newRequestLocked() *Request {
	c.current = Tag{ID: uuid.New(), Query: c.query, Page: c.page}
	c.inFlight = true
	return &Request{Tag: c.current, PageSize: c.pageSize, fetcher: c.fetcher}
}

func (c *Controller) snapshotLocked() Snapshot {
	items := make([]api.User, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Query:      c.query,
		Page:       c.page,
		Items:      items,
		TotalCount: c.total,
		Status:     c.status,
		Err:        c.lastErr,
		HasMore:    c.query != "" && len(c.items) < c.total,
	}
}

package search

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lox/ghsearch/internal/api"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 10

// ErrEmptyQuery is returned by ValidateQuery for blank input.
var ErrEmptyQuery = errors.New("search query is empty")

// Fetcher retrieves one page of results. Implementations must not retain
// state between calls.
type Fetcher interface {
	FetchPage(ctx context.Context, query string, page, pageSize int) (*api.SearchPage, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Tag identifies an outstanding request. A response is applied only while
// its tag is still the controller's current one.
type Tag struct {
	ID    uuid.UUID
	Query string
	Page  int
}

// Response carries the outcome of a Request back to the controller.
type Response struct {
	Tag  Tag
	Page *api.SearchPage
	Err  error
}

// Snapshot is a read-only copy of controller state for presentation.
type Snapshot struct {
	Query      string
	Page       int
	Items      []api.User
	TotalCount int
	Status     Status
	Err        error
	HasMore    bool
}

func (s Snapshot) IsLoading() bool { return s.Status == StatusLoading }

func (s Snapshot) HasError() bool { return s.Status == StatusError }

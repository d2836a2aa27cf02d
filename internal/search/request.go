package search

import "context"

// Request is a fetch the controller has committed to. Run it with Do and
// hand the result to Controller.Apply.
type Request struct {
	Tag      Tag
	PageSize int

	fetcher Fetcher
}

// Fresh reports whether the request is the first page of a new search.
func (r *Request) Fresh() bool { return r.Tag.Page == 1 }

// Do performs exactly one fetch. It does not touch controller state.
func (r *Request) Do(ctx context.Context) Response {
	page, err := r.fetcher.FetchPage(ctx, r.Tag.Query, r.Tag.Page, r.PageSize)
	return Response{Tag: r.Tag, Page: page, Err: err}
}

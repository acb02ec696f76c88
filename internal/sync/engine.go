package sync

import (
	"context"
	"fmt"
	"sync/atomic"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// Engine executes query pages against the remote catalog and owns the
// at-most-one-in-flight rule for the session it belongs to. It never
// touches a view cache; on failure the caller observes the error before
// any cache state changes.
type Engine struct {
	backend  Backend
	fetching atomic.Bool
}

func NewEngine(backend Backend) *Engine {
	return &Engine{backend: backend}
}

// IsFetching reports whether a page fetch is outstanding. UI pagination
// triggers must gate on this; a fetch issued while one is in flight
// fails with ErrFetchInFlight rather than interleaving.
func (e *Engine) IsFetching() bool {
	return e.fetching.Load()
}

// FetchFirstPage executes the first page of a query and returns the
// records plus the continuation token, bound to the query, for walking
// subsequent pages. A zero token means the result set fit in one page.
func (e *Engine) FetchFirstPage(ctx context.Context, q catalog.Query, pageSize int) (Page, error) {
	if pageSize <= 0 {
		return Page{}, fmt.Errorf("page size %d: %w", pageSize, ErrInvalidToken)
	}
	if !e.fetching.CompareAndSwap(false, true) {
		return Page{}, ErrFetchInFlight
	}
	defer e.fetching.Store(false)

	page, err := e.backend.Search(ctx, q, pageSize)
	if err != nil {
		return Page{}, err
	}
	page.Next.Query = q
	return page, nil
}

// FetchNextPage continues a walk using a token from a previous fetch.
// The token must belong to the query it was issued for; a token from a
// different query fails with ErrInvalidToken before any backend call.
func (e *Engine) FetchNextPage(ctx context.Context, token ContinuationToken, pageSize int) (Page, error) {
	if pageSize <= 0 || token.Zero() {
		return Page{}, ErrInvalidToken
	}
	if !e.fetching.CompareAndSwap(false, true) {
		return Page{}, ErrFetchInFlight
	}
	defer e.fetching.Store(false)

	page, err := e.backend.Continue(ctx, token, pageSize)
	if err != nil {
		return Page{}, err
	}
	page.Next.Query = token.Query
	return page, nil
}

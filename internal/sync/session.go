package sync

import (
	"context"
	"sync/atomic"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// DefaultMaxRecords bounds how many records one feed accumulates across
// cursor walks. Policy, not protocol: it exists to cap pathological
// memory growth on an endless feed.
const DefaultMaxRecords = 300

// Config is the read-only snapshot a session is created with. App-wide
// state (signed-in user, limits) is injected here instead of being read
// from ambient globals.
type Config struct {
	// UserUID is the signed-in user, "" when browsing anonymously.
	UserUID string

	// MaxRecords caps total records retained across pages.
	// DefaultMaxRecords when zero.
	MaxRecords int

	// Imports answers "already imported" lookups. Optional.
	Imports ImportIndex
}

// Session is the query/cache/fetch state of one UI feed. Sessions are
// independent: each owns its cache and in-flight flag, and nothing is
// shared between concurrently running sessions except the remote
// catalog itself.
type Session struct {
	engine *Engine
	cache  *ViewCache
	cfg    Config

	token  ContinuationToken
	closed atomic.Bool
}

func NewSession(backend Backend, cfg Config) *Session {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}
	return &Session{
		engine: NewEngine(backend),
		cache:  NewViewCache(),
		cfg:    cfg,
	}
}

// Cache exposes the feed's view cache.
func (s *Session) Cache() *ViewCache {
	return s.cache
}

// IsFetching mirrors the engine's in-flight flag for UI gating.
func (s *Session) IsFetching() bool {
	return s.engine.IsFetching()
}

// Exhausted reports whether the current query has no further pages.
func (s *Session) Exhausted() bool {
	return s.token.Zero()
}

// Search runs the first page of a query. On success the cache is reset
// to the query and fully replaced with the page; on failure the cache
// is untouched. A response arriving after Close is dropped.
func (s *Session) Search(ctx context.Context, q catalog.Query, pageSize int) error {
	page, err := s.engine.FetchFirstPage(ctx, q, pageSize)
	if err != nil {
		return err
	}
	if s.closed.Load() {
		return nil
	}
	s.cache.Reset(q)
	s.cache.ReplaceAll(page.Records)
	s.token = page.Next
	return nil
}

// LoadMore walks the stored cursor one page and appends into the cache.
// It returns the number of records added. With no cursor it is a no-op:
// the absent cursor is the terminal "no more results" signal. A page
// that adds nothing while still carrying a cursor is treated as
// exhaustion so the feed cannot stall on a transient zero-match page.
func (s *Session) LoadMore(ctx context.Context, pageSize int) (int, error) {
	if s.token.Zero() || s.cache.Len() >= s.cfg.MaxRecords {
		return 0, nil
	}
	page, err := s.engine.FetchNextPage(ctx, s.token, pageSize)
	if err != nil {
		return 0, err
	}
	if s.closed.Load() {
		return 0, nil
	}
	added := s.cache.Append(page.Records)
	if added == 0 {
		s.token = ContinuationToken{}
		return 0, nil
	}
	s.token = page.Next
	return added, nil
}

// IsImported reports whether a catalog record already has a local copy,
// by foreign-key lookup against the session's import index.
func (s *Session) IsImported(ctx context.Context, catalogID string) (bool, error) {
	if s.cfg.Imports == nil {
		return false, nil
	}
	local, err := s.cfg.Imports.LookupByCatalogID(ctx, catalogID)
	if err != nil {
		return false, err
	}
	return local != nil, nil
}

// Close tears the session down. No forced abort: an in-flight fetch is
// allowed to complete, and its late response is silently dropped.
func (s *Session) Close() {
	s.closed.Store(true)
}

package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"sync/atomic"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// fakeBackend is an in-memory catalog with the same query, cursor, and
// failure semantics as the real service.
type fakeBackend struct {
	mu      gosync.Mutex
	records map[string]*catalog.Record
	cursors map[string]fakeCursor
	uploads map[string][]byte
	nextTok int

	searchErr error
	getErr    error
	saveErr   error
	deleteErr error
	uploadErr error

	saves     atomic.Int32
	searching atomic.Bool
	gate      chan struct{} // when non-nil, Search/Continue block on it
}

type fakeCursor struct {
	query  catalog.Query
	offset int
}

func newFakeBackend(records ...*catalog.Record) *fakeBackend {
	fb := &fakeBackend{
		records: make(map[string]*catalog.Record),
		cursors: make(map[string]fakeCursor),
		uploads: make(map[string][]byte),
	}
	for _, r := range records {
		clone := *r
		fb.records[r.ID] = &clone
	}
	return fb
}

func (fb *fakeBackend) waitGate() {
	fb.searching.Store(true)
	defer fb.searching.Store(false)
	if fb.gate != nil {
		<-fb.gate
	}
}

func (fb *fakeBackend) page(q catalog.Query, pageSize, offset int) Page {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	var matched []*catalog.Record
	for _, r := range fb.records {
		if q.Matches(r) {
			matched = append(matched, r)
		}
	}
	q.SortRecords(matched)

	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	var page Page
	for _, r := range matched[offset:end] {
		clone := *r
		page.Records = append(page.Records, &clone)
	}
	if end < len(matched) {
		fb.nextTok++
		tok := fmt.Sprintf("tok-%d", fb.nextTok)
		fb.cursors[tok] = fakeCursor{query: q, offset: end}
		page.Next = ContinuationToken{Value: tok, Query: q}
	}
	return page
}

func (fb *fakeBackend) Search(ctx context.Context, q catalog.Query, pageSize int) (Page, error) {
	fb.waitGate()
	if fb.searchErr != nil {
		return Page{}, fb.searchErr
	}
	return fb.page(q, pageSize, 0), nil
}

func (fb *fakeBackend) Continue(ctx context.Context, token ContinuationToken, pageSize int) (Page, error) {
	fb.waitGate()
	if fb.searchErr != nil {
		return Page{}, fb.searchErr
	}
	fb.mu.Lock()
	cur, ok := fb.cursors[token.Value]
	fb.mu.Unlock()
	if !ok || !cur.query.Equal(token.Query) {
		return Page{}, ErrInvalidToken
	}
	return fb.page(cur.query, pageSize, cur.offset), nil
}

func (fb *fakeBackend) Get(ctx context.Context, id string) (*catalog.Record, error) {
	if fb.getErr != nil {
		return nil, fb.getErr
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	r, ok := fb.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *r
	return &clone, nil
}

func (fb *fakeBackend) Save(ctx context.Context, r *catalog.Record) error {
	if fb.saveErr != nil {
		return fb.saveErr
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	clone := *r
	fb.records[r.ID] = &clone
	fb.saves.Add(1)
	return nil
}

func (fb *fakeBackend) Delete(ctx context.Context, id string) error {
	if fb.deleteErr != nil {
		return fb.deleteErr
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	delete(fb.records, id)
	return nil
}

func (fb *fakeBackend) UploadAttachment(ctx context.Context, filename string, data []byte) (string, error) {
	if fb.uploadErr != nil {
		return "", fb.uploadErr
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	ref := "/images/" + filename
	fb.uploads[ref] = data
	return ref, nil
}

// pageScript is a backend stub that plays back a fixed sequence of
// pages, for exercising cursor edge cases the fake never produces.
type pageScript struct {
	fakeBackend
	pages []Page
	calls int
}

func (ps *pageScript) Search(ctx context.Context, q catalog.Query, pageSize int) (Page, error) {
	return ps.next(), nil
}

func (ps *pageScript) Continue(ctx context.Context, token ContinuationToken, pageSize int) (Page, error) {
	return ps.next(), nil
}

func (ps *pageScript) next() Page {
	if ps.calls >= len(ps.pages) {
		return Page{}
	}
	p := ps.pages[ps.calls]
	ps.calls++
	return p
}

package sync

import (
	gosync "sync"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// ViewCache is the ordered, deduplicated record list backing one UI
// feed. It is bound to the query that produced its contents and owned
// by exactly one session; mutations from the reconciler are applied in
// place by identifier, never by re-fetching.
type ViewCache struct {
	mu      gosync.Mutex
	query   catalog.Query
	records []*catalog.Record
	index   map[string]int
	deleted map[string]struct{}
}

func NewViewCache() *ViewCache {
	return &ViewCache{
		index:   make(map[string]int),
		deleted: make(map[string]struct{}),
	}
}

// Reset clears contents and binds the cache to a new query. Resetting
// to the currently bound query is an idempotent clear.
func (vc *ViewCache) Reset(q catalog.Query) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.query = q
	vc.records = nil
	vc.index = make(map[string]int)
	vc.deleted = make(map[string]struct{})
}

// Query returns the query the cache is bound to.
func (vc *ViewCache) Query() catalog.Query {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.query
}

// Append adds records not already present by identifier. The first
// occurrence wins; later duplicates are dropped so a record the user is
// viewing is never clobbered mid-scroll. Records deleted earlier in
// this session are excluded so a late page cannot re-insert them.
// Returns the number of records actually added.
func (vc *ViewCache) Append(records []*catalog.Record) int {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	added := 0
	for _, r := range records {
		if _, dead := vc.deleted[r.ID]; dead {
			continue
		}
		if _, dup := vc.index[r.ID]; dup {
			continue
		}
		vc.index[r.ID] = len(vc.records)
		vc.records = append(vc.records, r)
		added++
	}
	return added
}

// ReplaceAll fully replaces contents. Used only on the first page of a
// new query.
func (vc *ViewCache) ReplaceAll(records []*catalog.Record) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.records = nil
	vc.index = make(map[string]int)
	for _, r := range records {
		if _, dead := vc.deleted[r.ID]; dead {
			continue
		}
		if _, dup := vc.index[r.ID]; dup {
			continue
		}
		vc.index[r.ID] = len(vc.records)
		vc.records = append(vc.records, r)
	}
}

// Len returns the number of cached records.
func (vc *ViewCache) Len() int {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return len(vc.records)
}

// Records returns a snapshot of the cached sequence in order.
func (vc *ViewCache) Records() []*catalog.Record {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	out := make([]*catalog.Record, len(vc.records))
	copy(out, vc.records)
	return out
}

// Get returns the cached record with the given identifier, or nil.
func (vc *ViewCache) Get(id string) *catalog.Record {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if i, ok := vc.index[id]; ok {
		return vc.records[i]
	}
	return nil
}

// Apply mutates the cached record with the given identifier in place.
// Returns false when the record is not cached.
func (vc *ViewCache) Apply(id string, mutate func(*catalog.Record)) bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	i, ok := vc.index[id]
	if !ok {
		return false
	}
	mutate(vc.records[i])
	return true
}

// Remove deletes the record by identifier, shifting subsequent indices.
// The identifier joins the session's deleted set so late-arriving pages
// cannot re-insert it. No tombstone is kept beyond that set.
func (vc *ViewCache) Remove(id string) bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.deleted[id] = struct{}{}
	i, ok := vc.index[id]
	if !ok {
		return false
	}
	vc.records = append(vc.records[:i], vc.records[i+1:]...)
	delete(vc.index, id)
	for j := i; j < len(vc.records); j++ {
		vc.index[vc.records[j].ID] = j
	}
	return true
}

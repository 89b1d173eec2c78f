// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pool

import (
	"sync"
	"time"
)

// inflightEntry records one outstanding dispatch to a peer.
type inflightEntry struct {
	req          Request
	dispatchedAt time.Time
}

// inflightTable is a TTL-bounded, LRU-evicted table of outstanding
// per-peer dispatches. It is not a resolver-result cache — it never
// stores a reply — only bookkeeping Local needs to pick a peer that
// isn't already waiting on a request and to expire stale entries after
// ackTimeout. Adapted from the teacher's account-data cache: the same
// bounded-map-with-LRU-eviction shape, repurposed from caching ledger
// reads to tracking in-flight peer dispatches.
type inflightTable struct {
	mu          sync.Mutex
	entries     map[string]inflightEntry
	accessOrder []string
	maxEntries  int
}

func newInflightTable(maxEntries int) *inflightTable {
	if maxEntries <= 0 {
		maxEntries = 16
	}
	return &inflightTable{
		entries:    make(map[string]inflightEntry),
		maxEntries: maxEntries,
	}
}

// track records a new dispatch to peer, evicting the least-recently-used
// entry first if the table is at capacity.
func (t *inflightTable) track(peer string, req Request) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[peer]; !exists && len(t.entries) >= t.maxEntries {
		t.evictLRULocked()
	}

	t.entries[peer] = inflightEntry{req: req, dispatchedAt: time.Now()}
	t.touchLocked(peer)
}

// clear removes peer's outstanding dispatch, e.g. once its reply or
// timeout has been handled.
func (t *inflightTable) clear(peer string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, peer)
	t.removeFromOrderLocked(peer)
}

// isInflight reports whether peer currently has an outstanding dispatch
// younger than ttl.
func (t *inflightTable) isInflight(peer string, ttl time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[peer]
	if !ok {
		return false
	}
	return time.Since(entry.dispatchedAt) < ttl
}

func (t *inflightTable) touchLocked(peer string) {
	t.removeFromOrderLocked(peer)
	t.accessOrder = append(t.accessOrder, peer)
}

func (t *inflightTable) removeFromOrderLocked(peer string) {
	for i, p := range t.accessOrder {
		if p == peer {
			t.accessOrder = append(t.accessOrder[:i], t.accessOrder[i+1:]...)
			return
		}
	}
}

func (t *inflightTable) evictLRULocked() {
	if len(t.accessOrder) == 0 {
		return
	}
	oldest := t.accessOrder[0]
	t.accessOrder = t.accessOrder[1:]
	delete(t.entries, oldest)
}

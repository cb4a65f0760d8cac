package syncer

import "sync"

// PendingItem describes one piece of remote content whose metadata has
// been observed but whose bytes are not yet locally available.
type PendingItem struct {
	Digest  string
	Key     string
	Size    uint64
	Dataset string
}

// pendingIndex maps content digest to pending item. Writes come from the
// session's single consumer goroutine; the lock exists for concurrent
// readers (Len, Snapshot) from status queries.
type pendingIndex struct {
	mu    sync.RWMutex
	items map[string]PendingItem
}

func newPendingIndex() *pendingIndex {
	return &pendingIndex{items: make(map[string]PendingItem)}
}

// insert records item under its digest with first-writer-wins semantics.
// Returns false when the digest is already indexed.
func (p *pendingIndex) insert(item PendingItem) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.items[item.Digest]; ok {
		return false
	}
	p.items[item.Digest] = item
	return true
}

// remove deletes and returns the item for digest, if indexed.
func (p *pendingIndex) remove(digest string) (PendingItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[digest]
	if ok {
		delete(p.items, digest)
	}
	return item, ok
}

// Len returns the number of outstanding items.
func (p *pendingIndex) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

package fst

import "container/list"

// dedupEntryOverhead approximates the bookkeeping cost (map bucket, list
// node, pointers) of one dedup cache entry beyond its key bytes, for
// accounting against the caller-supplied byte budget. It is a rough
// constant, not a precise measurement of Go's runtime representation.
const dedupEntryOverhead = 48

// dedupCache is a byte-budget-bounded LRU from a node's canonical encoded
// bytes (see nodePayload) to the file offset an identical node was
// previously written at. Unlike a bare hash-based cache, the key is the
// full structural encoding, so there is never a risk of two different
// nodes being mistaken for the same one — eviction only loses future
// sharing opportunities, never correctness (spec.md §4.1, §5).
type dedupCache struct {
	budget  uint64
	used    uint64
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type dedupEntry struct {
	key    string
	offset uint64
	size   uint64
}

func newDedupCache(budgetBytes uint64) *dedupCache {
	return &dedupCache{
		budget:  budgetBytes,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached offset for key, if present, promoting it to
// most-recently-used.
func (c *dedupCache) Get(key []byte) (uint64, bool) {
	elem, ok := c.entries[string(key)]
	if !ok {
		return 0, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*dedupEntry).offset, true
}

// Put registers key → offset, evicting least-recently-used entries until
// the new entry fits within the byte budget. If the budget is smaller
// than a single entry, Put is a no-op (the entry is simply never cached,
// never an error — it only costs a future dedup opportunity).
func (c *dedupCache) Put(key []byte, offset uint64) {
	if _, exists := c.entries[string(key)]; exists {
		return
	}

	size := uint64(len(key)) + dedupEntryOverhead
	if size > c.budget {
		return
	}

	for c.used+size > c.budget && c.order.Len() > 0 {
		c.evictOldest()
	}

	k := string(key)
	elem := c.order.PushFront(&dedupEntry{key: k, offset: offset, size: size})
	c.entries[k] = elem
	c.used += size
}

func (c *dedupCache) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*dedupEntry)
	c.order.Remove(back)
	delete(c.entries, entry.key)
	c.used -= entry.size
}

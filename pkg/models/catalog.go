package models

import "sync"

// Catalog is the append-only ordered sequence of surviving books for one
// run. Append is the single publication point for an entry: a book is only
// added after extraction and all attempted asset fetches have completed,
// so concurrent per-book workers never expose a partially built entry.
type Catalog struct {
	mu      sync.Mutex
	entries []Book
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make([]Book, 0)}
}

// Append publishes a finished book entry.
func (c *Catalog) Append(b Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, b)
}

// Len reports the number of published entries.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a copy of the published entries, safe to hand off to the
// writer after the walk ends.
func (c *Catalog) Entries() []Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Book, len(c.entries))
	copy(out, c.entries)
	return out
}

package embedding

import (
	"container/list"
	"sync"
)

// vectorCache is a bounded LRU of embeddings keyed by input text. It stores its own copies:
// Put copies the vector in and Get hands out a fresh copy, so no caller can alias an entry.
type vectorCache struct {
	mu      sync.Mutex
	limit   int
	order   *list.List // front is most recently used
	entries map[string]*list.Element
}

type cachedVector struct {
	text string
	vec  []float32
}

func newVectorCache(limit int) *vectorCache {
	if limit <= 0 {
		limit = 1
	}
	return &vectorCache{
		limit:   limit,
		order:   list.New(),
		entries: make(map[string]*list.Element, limit),
	}
}

// Get returns a copy of the vector for text. A hit reorders the list, so it takes the full lock.
func (c *vectorCache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return clone(el.Value.(*cachedVector).vec), true
}

// Put stores a copy of vec, evicting the least recently used entry past the limit.
func (c *vectorCache) Put(text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[text]; ok {
		el.Value.(*cachedVector).vec = clone(vec)
		c.order.MoveToFront(el)
		return
	}
	c.entries[text] = c.order.PushFront(&cachedVector{text: text, vec: clone(vec)})
	for c.order.Len() > c.limit {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cachedVector).text)
	}
}

func (c *vectorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

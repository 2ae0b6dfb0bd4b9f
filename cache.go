package main

import (
	"slices"
	"time"

	"github.com/codingcraftz/wedding/guestbook"
	lru "github.com/hashicorp/golang-lru/v2"
)

// apiPage is one page of the public JSON listing.
type apiPage struct {
	Messages   []guestbook.Message `json:"messages"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

type pageKey struct {
	page, limit int
}

// cached wraps a value with the time it was stored.
type cached[T any] struct {
	value    T
	storedAt time.Time
}

// MessageCache keeps the guestbook list and the API pages built from it
// for ttl. Every write to the guestbook must call Invalidate.
type MessageCache struct {
	list  *lru.Cache[struct{}, cached[[]guestbook.Message]]
	pages *lru.Cache[pageKey, cached[apiPage]]
	ttl   time.Duration
}

func NewMessageCache(size int, ttl time.Duration) (*MessageCache, error) {
	list, err := lru.New[struct{}, cached[[]guestbook.Message]](1)
	if err != nil {
		return nil, err
	}
	pages, err := lru.New[pageKey, cached[apiPage]](size)
	if err != nil {
		return nil, err
	}
	return &MessageCache{list: list, pages: pages, ttl: ttl}, nil
}

// lookup returns the entry for key unless it has expired, removing
// expired entries as it finds them.
func lookup[K comparable, V any](c *lru.Cache[K, cached[V]], key K, ttl time.Duration) (V, bool) {
	entry, ok := c.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if time.Since(entry.storedAt) > ttl {
		c.Remove(key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// GetMessages returns a copy of the cached list, newest first.
func (c *MessageCache) GetMessages() ([]guestbook.Message, bool) {
	messages, ok := lookup(c.list, struct{}{}, c.ttl)
	if !ok {
		return nil, false
	}
	return slices.Clone(messages), true
}

func (c *MessageCache) SetMessages(messages []guestbook.Message) {
	c.list.Add(struct{}{}, cached[[]guestbook.Message]{
		value:    slices.Clone(messages),
		storedAt: time.Now(),
	})
}

func (c *MessageCache) GetPage(page, limit int) (apiPage, bool) {
	return lookup(c.pages, pageKey{page, limit}, c.ttl)
}

func (c *MessageCache) SetPage(p apiPage) {
	c.pages.Add(pageKey{p.Page, p.Limit}, cached[apiPage]{value: p, storedAt: time.Now()})
}

// Invalidate drops the list and every cached API page.
func (c *MessageCache) Invalidate() {
	c.list.Purge()
	c.pages.Purge()
}

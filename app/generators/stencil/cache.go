package stencil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled templates a Cache keeps when
// no size is configured.
const DefaultCacheSize = 128

// Cache memoises compiled templates by name, delimiters and source text.
// It is safe for concurrent use.
type Cache struct {
	templates *lru.Cache[string, *Template]
}

// NewCache creates a Cache holding at most size templates. A size of zero
// or less selects DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *Template](size)
	if err != nil {
		return nil, fmt.Errorf("create template cache: %w", err)
	}
	return &Cache{templates: c}, nil
}

// Compile returns a cached template for the given source, compiling it on a
// miss. Templates that fail to compile are not cached.
func (c *Cache) Compile(name, text string, opts ...Option) (*Template, error) {
	o := options{left: DefaultLeftDelim, right: DefaultRightDelim}
	for _, opt := range opts {
		opt(&o)
	}
	key := cacheKey(name, o.left, o.right, text)

	if t, ok := c.templates.Get(key); ok {
		return t, nil
	}

	t, err := Compile(name, text, WithDelimiters(o.left, o.right))
	if err != nil {
		return nil, err
	}
	c.templates.Add(key, t)
	return t, nil
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	return c.templates.Len()
}

// Purge drops every cached template.
func (c *Cache) Purge() {
	c.templates.Purge()
}

func cacheKey(name, left, right, text string) string {
	h := sha256.New()
	for _, part := range []string{name, left, right, text} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

package erp

import (
	"sync"
	"time"
)

// refreshMargin forces a new token when the cached one is about to expire.
const refreshMargin = time.Minute

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// tokenCache holds one access token per ERP resource. Safe for concurrent
// use.
type tokenCache struct {
	mu     sync.Mutex
	tokens map[string]cachedToken
}

func newTokenCache() *tokenCache {
	return &tokenCache{tokens: make(map[string]cachedToken)}
}

func (c *tokenCache) get(resource string, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok := c.tokens[resource]
	if !ok {
		return "", false
	}
	if now.After(token.expiresAt.Add(-refreshMargin)) {
		delete(c.tokens, resource)
		return "", false
	}
	return token.value, true
}

func (c *tokenCache) put(resource, value string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[resource] = cachedToken{value: value, expiresAt: expiresAt}
}

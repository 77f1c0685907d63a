package geoip

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingResolver memoizes country lookups. Click bursts from a campaign
// tend to repeat the same handful of IPs, so the database read is skipped
// for recently seen addresses.
type CachingResolver struct {
	inner CountryResolver
	cache *lru.Cache[string, string]
}

// NewCachingResolver wraps the resolver with an LRU of the given size.
// A nil inner resolver yields nil so callers keep their existing nil checks.
func NewCachingResolver(inner CountryResolver, size int) (CountryResolver, error) {
	if inner == nil {
		return nil, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachingResolver{inner: inner, cache: cache}, nil
}

// CountryCode returns the ISO country code for the provided IP, serving
// repeated lookups from the cache. Errors are not cached.
func (c *CachingResolver) CountryCode(ip string) (string, error) {
	if code, ok := c.cache.Get(ip); ok {
		return code, nil
	}
	code, err := c.inner.CountryCode(ip)
	if err != nil {
		return "", err
	}
	c.cache.Add(ip, code)
	return code, nil
}

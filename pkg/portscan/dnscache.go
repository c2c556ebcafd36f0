package portscan

import (
	"net"
	"strings"
	"sync"
)

// DNSCache memoizes reverse lookups for the lifetime of one run. Lookup
// failure degrades to an empty name and is cached so the miss is not
// retried per probe. Concurrent duplicate lookups for the same address are
// tolerated (duplicate work, not corruption).
type DNSCache struct {
	mu      sync.Mutex
	entries map[string]string
	lookup  func(string) ([]string, error)
}

func NewDNSCache() *DNSCache {
	return &DNSCache{
		entries: make(map[string]string),
		lookup:  net.LookupAddr,
	}
}

// Lookup returns the hostname for ip, consulting the cache before issuing
// a reverse lookup. Never fails; unknown addresses resolve to "".
func (c *DNSCache) Lookup(ip string) string {
	c.mu.Lock()
	name, ok := c.entries[ip]
	c.mu.Unlock()
	if ok {
		return name
	}

	names, err := c.lookup(ip)
	if err == nil && len(names) > 0 {
		name = strings.TrimSuffix(names[0], ".")
	}

	c.mu.Lock()
	c.entries[ip] = name
	c.mu.Unlock()
	return name
}

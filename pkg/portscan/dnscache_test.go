package portscan

import (
	"fmt"
	"testing"
)

func TestDNSCacheHitAvoidsSecondLookup(t *testing.T) {
	calls := 0
	cache := NewDNSCache()
	cache.lookup = func(ip string) ([]string, error) {
		calls++
		return []string{"gateway.local."}, nil
	}

	if got := cache.Lookup("10.0.0.1"); got != "gateway.local" {
		t.Fatalf("lookup mismatch: got=%q want=%q", got, "gateway.local")
	}
	if got := cache.Lookup("10.0.0.1"); got != "gateway.local" {
		t.Fatalf("cached lookup mismatch: got=%q", got)
	}
	if calls != 1 {
		t.Fatalf("resolver calls mismatch: got=%d want=1", calls)
	}
}

func TestDNSCacheFailureCached(t *testing.T) {
	calls := 0
	cache := NewDNSCache()
	cache.lookup = func(ip string) ([]string, error) {
		calls++
		return nil, fmt.Errorf("nxdomain")
	}

	if got := cache.Lookup("10.0.0.2"); got != "" {
		t.Fatalf("failed lookup must yield empty name, got=%q", got)
	}
	if got := cache.Lookup("10.0.0.2"); got != "" {
		t.Fatalf("cached failure must yield empty name, got=%q", got)
	}
	if calls != 1 {
		t.Fatalf("failed lookup must be cached: calls=%d", calls)
	}
}

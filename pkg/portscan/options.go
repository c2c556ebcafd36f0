package portscan

import (
	"time"
)

// Connect timeouts inferred when no explicit timeout is configured: short
// for targets in a private IPv4 range, longer for everything else.
const (
	TimeoutLAN = 70 * time.Millisecond
	TimeoutWAN = 180 * time.Millisecond
)

// OnResult receives every reportable probe outcome: open always, closed
// when show-closed is active, excluded when verbose. hostname is non-empty
// only for open ports when reverse-DNS is active and the lookup succeeded.
type OnResult func(host string, port int, outcome ProbeOutcome, hostname string)

// Options configures one Scanner. Built once from the CLI configuration and
// passed by reference; the scanner never reaches for ambient state.
type Options struct {
	Ports        []int            // resolved port list, already validated
	SkipPorts    map[int]struct{} // ports never probed
	Workers      int              // worker pool bound shared by all probes of a host scan
	Timeout      time.Duration    // per-connect bound
	ShufflePorts bool
	ShowClosed   bool
	Verbose      bool
	ResolveDNS   bool
	OnResult     OnResult
}

// DefaultOptions returns a safe default configuration.
func DefaultOptions() *Options {
	ports, _ := ParsePortSpec(DefaultPorts)
	return &Options{
		Ports:     ports,
		SkipPorts: make(map[int]struct{}),
		Workers:   100,
		Timeout:   TimeoutWAN,
	}
}

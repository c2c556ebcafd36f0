package portscan

import (
	"sync"
	"sync/atomic"
)

// Stats holds the run-lifetime counters mutated by concurrent probes and
// read by the runtime reporter and the final summary. Loop termination and
// summary accuracy depend on exact counts, hence atomics throughout.
type Stats struct {
	HostsScanned atomic.Uint64
	HostsSkipped atomic.Uint64
	PortsScanned atomic.Uint64
	PortsSkipped atomic.Uint64
	PortsOpened  atomic.Uint64
}

// StatsSnapshot is a consistent-enough point-in-time read of Stats.
type StatsSnapshot struct {
	HostsScanned uint64
	HostsSkipped uint64
	PortsScanned uint64
	PortsSkipped uint64
	PortsOpened  uint64
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		HostsScanned: s.HostsScanned.Load(),
		HostsSkipped: s.HostsSkipped.Load(),
		PortsScanned: s.PortsScanned.Load(),
		PortsSkipped: s.PortsSkipped.Load(),
		PortsOpened:  s.PortsOpened.Load(),
	}
}

// OpenPorts accumulates the open ports discovered per host across the whole
// run, for the active-host count in the final summary.
type OpenPorts struct {
	mu   sync.Mutex
	open map[string][]int
}

func NewOpenPorts() *OpenPorts {
	return &OpenPorts{open: make(map[string][]int)}
}

func (c *OpenPorts) Add(host string, port int) {
	c.mu.Lock()
	c.open[host] = append(c.open[host], port)
	c.mu.Unlock()
}

func (c *OpenPorts) ActiveHosts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.open)
}

func (c *OpenPorts) Snapshot() map[string][]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make(map[string][]int, len(c.open))
	for host, ports := range c.open {
		cp[host] = append([]int(nil), ports...)
	}
	return cp
}

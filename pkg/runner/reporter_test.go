package runner

import (
	"strings"
	"testing"
	"time"

	"tcpscan/pkg/portscan"
)

func TestReporterIdlePeriodicLineSuppressed(t *testing.T) {
	r := NewReporter(&portscan.Stats{}, 1, false)
	r.lastAt = time.Now()

	if line, ok := r.statsLine(false, time.Now()); ok {
		t.Fatalf("periodic line before any probe must be suppressed: got=%q", line)
	}
}

func TestReporterFinalLineAlwaysEmitted(t *testing.T) {
	r := NewReporter(&portscan.Stats{}, 1, false)
	r.lastAt = time.Now()

	line, ok := r.statsLine(true, time.Now())
	if !ok {
		t.Fatalf("closing line must be emitted even with zero probes")
	}
	if !strings.Contains(line, "hosts:0") || !strings.Contains(line, "ports:0") || !strings.Contains(line, "ports/sec:0") {
		t.Fatalf("closing line fields mismatch: got=%q", line)
	}
}

func TestReporterRateFromCounterDelta(t *testing.T) {
	stats := &portscan.Stats{}
	stats.HostsScanned.Add(2)
	stats.PortsScanned.Add(100)

	r := NewReporter(stats, 1, false)
	now := time.Now()
	r.lastAt = now.Add(-2 * time.Second)

	line, ok := r.statsLine(false, now)
	if !ok {
		t.Fatalf("line with scanned ports must be emitted")
	}
	if !strings.Contains(line, "hosts:2") || !strings.Contains(line, "ports:100") {
		t.Fatalf("counter fields mismatch: got=%q", line)
	}
	if !strings.Contains(line, "ports/sec:50") {
		t.Fatalf("rate mismatch: got=%q", line)
	}
	if r.lastSeen != 100 {
		t.Fatalf("last-seen not advanced: got=%d", r.lastSeen)
	}
}

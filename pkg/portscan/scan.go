package portscan

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/netip"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/zan8in/gologger"
)

// Scanner is the per-run probing engine: it owns the shared counters, the
// open-port accumulation, the reverse-DNS cache and the bounded worker pool
// that all host scans fan out through.
type Scanner struct {
	options *Options
	pool    *ants.PoolWithFunc

	Stats *Stats
	Open  *OpenPorts
	Cache *DNSCache
}

type probeTask struct {
	ctx  context.Context
	host string
	port int
	res  *resultMap
	wg   *sync.WaitGroup
}

type resultMap struct {
	mu sync.Mutex
	m  ScanResult
}

func (r *resultMap) set(port int, open bool) {
	r.mu.Lock()
	r.m[port] = open
	r.mu.Unlock()
}

func (r *resultMap) snapshot() ScanResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(ScanResult, len(r.m))
	for p, open := range r.m {
		cp[p] = open
	}
	return cp
}

// NewScanner creates a scanner instance with its worker pool sized to
// opt.Workers. Callers must Release it when the run finalizes.
func NewScanner(opt *Options) (*Scanner, error) {
	if opt == nil {
		opt = DefaultOptions()
	}
	if opt.Workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", opt.Workers)
	}
	if len(opt.Ports) == 0 {
		return nil, fmt.Errorf("no ports to scan")
	}

	scanner := &Scanner{
		options: opt,
		Stats:   &Stats{},
		Open:    NewOpenPorts(),
		Cache:   NewDNSCache(),
	}

	pool, err := ants.NewPoolWithFunc(opt.Workers, func(i interface{}) {
		task := i.(probeTask)
		defer task.wg.Done()

		select {
		case <-task.ctx.Done():
			return
		default:
		}

		open, outcome, err := scanner.probe(task.host, task.port)
		if err != nil {
			gologger.Debug().Msgf("probe %s:%d: %s", task.host, task.port, err)
			return
		}
		if outcome != OutcomeExcluded {
			task.res.set(task.port, open)
		}
	})
	if err != nil {
		return nil, err
	}
	scanner.pool = pool

	return scanner, nil
}

// Release tears down the worker pool.
func (s *Scanner) Release() {
	s.pool.Release()
}

// ScanHost probes every resolved, non-excluded port of one host through the
// worker pool and collects the outcomes as they complete. An interrupt on
// ctx aborts the wait and returns whatever has completed; outstanding
// probes are no longer awaited.
func (s *Scanner) ScanHost(ctx context.Context, host string) ScanResult {
	s.Stats.HostsScanned.Add(1)

	ports := append([]int(nil), s.options.Ports...)
	if s.options.ShufflePorts {
		rand.Shuffle(len(ports), func(i, j int) {
			ports[i], ports[j] = ports[j], ports[i]
		})
	}

	res := &resultMap{m: make(ScanResult, len(ports))}
	var wg sync.WaitGroup

	for _, port := range ports {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := s.pool.Invoke(probeTask{ctx: ctx, host: host, port: port, res: res, wg: &wg}); err != nil {
			wg.Done()
			time.Sleep(10 * time.Millisecond)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	return res.snapshot()
}

// probe attempts one bounded TCP connect. Network failures (timeout,
// refusal, unreachable) classify the port closed and are never surfaced;
// the only error is programming-level misuse of the port number.
func (s *Scanner) probe(host string, port int) (bool, ProbeOutcome, error) {
	if port < 1 || port > maxPort {
		return false, OutcomeClosed, fmt.Errorf("port out of range 1-%d", maxPort)
	}

	if _, skip := s.options.SkipPorts[port]; skip {
		s.Stats.PortsSkipped.Add(1)
		if s.options.Verbose {
			s.emit(host, port, OutcomeExcluded, "")
		}
		return false, OutcomeExcluded, nil
	}

	s.Stats.PortsScanned.Add(1)
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), s.options.Timeout)
	if err != nil {
		if s.options.ShowClosed {
			s.emit(host, port, OutcomeClosed, "")
		}
		return false, OutcomeClosed, nil
	}
	conn.Close()

	s.Stats.PortsOpened.Add(1)
	s.Open.Add(host, port)

	hostname := ""
	if s.options.ResolveDNS {
		// Best effort: a failed reverse lookup degrades to an empty name.
		hostname = s.Cache.Lookup(host)
	}
	s.emit(host, port, OutcomeOpen, hostname)

	return true, OutcomeOpen, nil
}

func (s *Scanner) emit(host string, port int, outcome ProbeOutcome, hostname string) {
	if s.options.OnResult != nil {
		s.options.OnResult(host, port, outcome, hostname)
	}
}

// InferTimeout picks the connect timeout for the run: the explicit value
// when configured, otherwise the LAN scalar when the first scanned address
// is in a private IPv4 range and the WAN scalar when it is not.
func InferTimeout(explicit time.Duration, firstHost string) time.Duration {
	if explicit > 0 {
		return explicit
	}
	if addr, err := netip.ParseAddr(firstHost); err == nil && addr.IsPrivate() {
		return TimeoutLAN
	}
	return TimeoutWAN
}

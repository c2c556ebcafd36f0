package runner

import (
	"context"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/rs/xid"
	"github.com/zan8in/gologger"
	"go.uber.org/zap"

	"tcpscan/pkg/config"
	"tcpscan/pkg/listen"
	"tcpscan/pkg/log"
	"tcpscan/pkg/output"
	"tcpscan/pkg/portscan"
)

// Runner owns one scan (or listen) run: the resolved host sequence, the
// scanner with its counters, the output writer and the stats reporter.
type Runner struct {
	options *config.Options
	scanner *portscan.Scanner
	writer  *output.Writer

	scanID  string
	hosts   []string
	ports   []int
	skipNet *net.IPNet
	started time.Time

	// loop bookkeeping filled in by runLoop
	passes      int
	interrupted bool
}

func New(options *config.Options) (*Runner, error) {
	runner := &Runner{
		options: options,
		scanID:  xid.New().String(),
	}

	ports, err := portscan.ParsePortSpec(options.Ports)
	if err != nil {
		return nil, err
	}
	skipPorts, err := portscan.ParseSkipPorts(options.SkipPorts)
	if err != nil {
		return nil, err
	}
	skipNet, err := portscan.ParseSkipNetwork(options.SkipNetwork)
	if err != nil {
		return nil, err
	}
	runner.skipNet = skipNet

	hosts, err := portscan.EnumerateHosts(options.Target, options.ShuffleHosts)
	if err != nil {
		return nil, err
	}
	runner.hosts = hosts
	runner.ports = ports

	// In listen mode the output path belongs to the listener log, which is
	// opened append-mode inside Serve; a scan CSV here would truncate it.
	csvPath := options.Output
	if options.Listen {
		csvPath = ""
	}
	writer, err := output.NewWriter(os.Stdout, csvPath)
	if err != nil {
		return nil, err
	}
	writer.SetColor(log.EnableColor)
	runner.writer = writer

	timeout := portscan.InferTimeout(time.Duration(options.Timeout)*time.Millisecond, hosts[0])

	scanner, err := portscan.NewScanner(&portscan.Options{
		Ports:        ports,
		SkipPorts:    skipPorts,
		Workers:      options.Workers,
		Timeout:      timeout,
		ShufflePorts: options.ShufflePorts,
		ShowClosed:   options.ShowClosed,
		Verbose:      options.Verbose,
		ResolveDNS:   options.ResolveDNS,
		OnResult: func(host string, port int, outcome portscan.ProbeOutcome, hostname string) {
			writer.Result(host, port, outcome.String(), hostname)
		},
	})
	if err != nil {
		writer.Close()
		return nil, err
	}
	runner.scanner = scanner

	log.Log().Debug("runner ready",
		zap.String("scan_id", runner.scanID),
		zap.Int("hosts", len(hosts)),
		zap.Int("ports", len(ports)),
	)

	return runner, nil
}

// Run executes the configured mode until done or interrupted. An interrupt
// is a normal termination: partial results stay valid and the summary is
// still printed.
func (r *Runner) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r.started = time.Now()

	if r.options.Listen {
		defer r.finalizeListen(ctx)
		return listen.Serve(ctx, &listen.Options{
			Ports:      r.ports,
			Workers:    r.options.Workers,
			ResolveDNS: r.options.ResolveDNS,
			Cache:      r.scanner.Cache,
			Output:     r.options.Output,
		})
	}

	reporter := NewReporter(r.scanner.Stats, r.options.StatsInterval, r.options.Verbose)
	reporter.Start(ctx)

	r.runLoop(ctx)

	reporter.Stop()
	r.scanner.Release()
	r.printSummary()

	return r.writer.Close()
}

func (r *Runner) finalizeListen(ctx context.Context) {
	if ctx.Err() != nil {
		gologger.Info().Msgf("listener stopped after %s", time.Since(r.started).Truncate(time.Second))
	}
	r.scanner.Release()
	r.writer.Close()
}

// printSummary reports the run totals. Without -v only a run that found
// nothing gets a summary, so the user can tell silence from failure; verbose
// expands every counter.
func (r *Runner) printSummary() {
	snap := r.scanner.Stats.Snapshot()
	elapsed := time.Since(r.started).Truncate(time.Millisecond)
	active := r.scanner.Open.ActiveHosts()

	if !r.options.Verbose {
		if snap.PortsOpened == 0 {
			gologger.Info().Msgf("0 ports open, %d hosts scanned, %d ports scanned",
				snap.HostsScanned, snap.PortsScanned)
		}
		return
	}

	gologger.Print().Msgf("")
	gologger.Info().Msgf("scan id:          %s", log.LogColor.Bold(r.scanID))
	gologger.Info().Msgf("scan time:        %s", elapsed)
	gologger.Info().Msgf("completed passes: %d", r.passes)
	gologger.Info().Msgf("active hosts:     %d", active)
	gologger.Info().Msgf("hosts scanned:    %d (skipped %d)", snap.HostsScanned, snap.HostsSkipped)
	gologger.Info().Msgf("ports scanned:    %d (skipped %d)", snap.PortsScanned, snap.PortsSkipped)
	gologger.Info().Msgf("ports open:       %s", log.LogColor.Green(snap.PortsOpened))
	if r.interrupted {
		gologger.Warning().Msgf("scan interrupted, results are partial")
	}
}

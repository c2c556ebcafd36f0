package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/zan8in/gologger"
	timeutil "github.com/zan8in/pins/time"

	"tcpscan/pkg/log"
	"tcpscan/pkg/portscan"
)

// Reporter emits runtime statistics to stderr on a fixed interval. It is
// owned by the run: Start ties its lifetime to the run context and Stop
// cancels it and flushes one final line.
type Reporter struct {
	stats    *portscan.Stats
	interval time.Duration
	verbose  bool

	proc     *process.Process
	lastSeen uint64
	lastAt   time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewReporter(stats *portscan.Stats, intervalSeconds int, verbose bool) *Reporter {
	r := &Reporter{
		stats:    stats,
		interval: time.Duration(intervalSeconds) * time.Second,
		verbose:  verbose,
	}
	if verbose {
		if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
			r.proc = proc
		}
	}
	return r
}

// Start launches the ticker goroutine. A zero interval disables reporting.
func (r *Reporter) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.lastAt = time.Now()

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.report(false)
			}
		}
	}()
}

// Stop cancels the ticker and emits the closing stats line. The closing line
// is printed even when nothing was scanned, so an enabled reporter always
// leaves a final record.
func (r *Reporter) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.report(true)
}

func (r *Reporter) report(final bool) {
	line, ok := r.statsLine(final, time.Now())
	if !ok {
		return
	}
	gologger.Print().Msgf("%s", log.LogColor.Stats(line))
}

// statsLine builds one stats line. Periodic firings before the first probe
// are suppressed so an idle startup stays silent; the final firing is not.
func (r *Reporter) statsLine(final bool, now time.Time) (string, bool) {
	snap := r.stats.Snapshot()
	if snap.PortsScanned == 0 && !final {
		return "", false
	}

	elapsed := now.Sub(r.lastAt).Seconds()
	var rate uint64
	if elapsed > 0 && snap.PortsScanned >= r.lastSeen {
		rate = uint64(float64(snap.PortsScanned-r.lastSeen) / elapsed)
	}
	r.lastSeen = snap.PortsScanned
	r.lastAt = now

	return fmt.Sprintf("[%s]\thosts:%d\tports:%d\tports/sec:%d%s",
		timeutil.Format(timeutil.Format_1),
		snap.HostsScanned,
		snap.PortsScanned,
		rate,
		r.procStats(),
	), true
}

func (r *Reporter) procStats() string {
	if r.proc == nil {
		return ""
	}
	cpu, err := r.proc.Percent(0)
	if err != nil {
		return ""
	}
	mem, err := r.proc.MemoryPercent()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\tcpu:%.1f%%\tmem:%.1f%%", cpu, mem)
}

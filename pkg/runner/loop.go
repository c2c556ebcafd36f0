package runner

import (
	"context"
	"time"

	"github.com/zan8in/gologger"
	timeutil "github.com/zan8in/pins/time"

	"tcpscan/pkg/log"
	"tcpscan/pkg/portscan"
)

// passDelay is the pause between consecutive scan passes. Targets that rate
// limit or tarpit repeated connects behave very differently without it, so
// the value is part of the loop contract rather than a tunable.
const passDelay = 700 * time.Millisecond

// runLoop executes scan passes until the loop policy is satisfied or the
// context is cancelled. Every pass walks the full host sequence; the result
// of the last host scanned feeds the until-open/until-closed policies.
func (r *Runner) runLoop(ctx context.Context) {
	for {
		last := r.scanPass(ctx)
		r.passes++

		if ctx.Err() != nil {
			r.interrupted = true
			return
		}
		if r.loopDone(last) {
			return
		}

		if r.options.Verbose || r.options.Loop != 1 {
			gologger.Print().Msgf("[%s]\tcompleted loops:%d", log.LogColor.Time(timeutil.Format(timeutil.Format_1)), r.passes)
		}

		select {
		case <-ctx.Done():
			r.interrupted = true
			return
		case <-time.After(passDelay):
		}
	}
}

// scanPass runs one pass over the host sequence and returns the scan result
// of the last host probed, or nil when every host was excluded.
func (r *Runner) scanPass(ctx context.Context) portscan.ScanResult {
	var last portscan.ScanResult
	for _, host := range r.hosts {
		if ctx.Err() != nil {
			break
		}
		if portscan.HostExcluded(host, r.skipNet) {
			r.scanner.Stats.HostsSkipped.Add(1)
			if r.options.Verbose {
				r.writer.HostExcluded(host)
			}
			continue
		}
		last = r.scanner.ScanHost(ctx, host)
	}
	return last
}

// loopDone decides whether the pass that just finished terminates the run.
func (r *Runner) loopDone(last portscan.ScanResult) bool {
	if r.options.LoopOpen {
		return last.AllOpen()
	}
	if r.options.LoopClose {
		return last.AllClosed()
	}
	if r.options.Loop == 0 {
		return false
	}
	return r.passes >= r.options.Loop
}

package listen

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/remeh/sizedwaitgroup"
	"github.com/zan8in/gologger"
	timeutil "github.com/zan8in/pins/time"

	"tcpscan/pkg/output"
	"tcpscan/pkg/portscan"
)

// Options configures the passive listener mode.
type Options struct {
	// Ports to bind on all interfaces.
	Ports []int

	// Workers bounds concurrent connection handling across all ports.
	Workers int

	// ResolveDNS reverse-resolves the remote address of each connection.
	ResolveDNS bool

	// Cache is the shared reverse-DNS cache; nil disables resolution.
	Cache *portscan.DNSCache

	// Output appends a CSV row per connection when non-empty.
	Output string
}

// Serve binds one TCP listener per port and logs every inbound connection
// until ctx is cancelled. Connections are accepted, recorded and closed;
// no payload is ever read.
func Serve(ctx context.Context, opts *Options) error {
	if len(opts.Ports) == 0 {
		return fmt.Errorf("no ports to listen on")
	}

	csvlog, err := output.NewListenLog(opts.Output)
	if err != nil {
		return err
	}
	defer csvlog.Close()

	listeners := make([]net.Listener, 0, len(opts.Ports))
	for _, port := range opts.Ports {
		ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(port)))
		if err != nil {
			for _, open := range listeners {
				open.Close()
			}
			return fmt.Errorf("listen on port %d: %w", port, err)
		}
		listeners = append(listeners, ln)
		gologger.Info().Msgf("listening on %s", ln.Addr())
	}

	// Cancellation path: closing the listeners unblocks every Accept.
	go func() {
		<-ctx.Done()
		for _, ln := range listeners {
			ln.Close()
		}
	}()

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	swg := sizedwaitgroup.New(workers)

	acceptDone := make(chan struct{}, len(listeners))
	for _, ln := range listeners {
		go func(ln net.Listener) {
			defer func() { acceptDone <- struct{}{} }()
			for {
				conn, err := ln.Accept()
				if err != nil {
					return
				}
				swg.Add()
				go func(conn net.Conn) {
					defer swg.Done()
					handle(conn, opts, csvlog)
				}(conn)
			}
		}(ln)
	}

	for range listeners {
		<-acceptDone
	}
	swg.Wait()

	return nil
}

func handle(conn net.Conn, opts *Options, csvlog *output.ListenLog) {
	defer conn.Close()

	local := conn.LocalAddr().String()
	remote := conn.RemoteAddr().String()

	if opts.ResolveDNS && opts.Cache != nil {
		if host, port, err := net.SplitHostPort(remote); err == nil {
			// Best effort: unresolvable peers keep their address form.
			if name := opts.Cache.Lookup(host); name != "" {
				remote = net.JoinHostPort(name, port)
			}
		}
	}

	ts := timeutil.Format(timeutil.Format_1)
	gologger.Print().Msgf("[%s]\tIncoming connection on %s from %s", ts, local, remote)
	csvlog.Connection(ts, local, remote)
}

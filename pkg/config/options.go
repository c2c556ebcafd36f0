package config

import (
	"fmt"

	"github.com/zan8in/goflags"
	"github.com/zan8in/gologger"
	"github.com/zan8in/gologger/levels"

	"tcpscan/pkg/portscan"
)

// Options carries the full CLI surface. One instance is built at startup
// and passed by reference into every component constructor.
type Options struct {
	// Target expression: single IP, CIDR network or hostname.
	Target string

	// Ports is the port spec: comma list, hyphen range or "all". Empty
	// means the built-in common-port list.
	Ports string

	// SkipPorts excludes a subset of ports, same grammar as Ports.
	SkipPorts string

	// SkipNetwork excludes a sub-netblock of hosts, e.g. 192.168.1.96/28.
	SkipNetwork string

	// Workers bounds the probe pool.
	Workers int

	// Timeout is the connect timeout in milliseconds; 0 infers LAN/WAN
	// from the first scanned address.
	Timeout int

	ShuffleHosts bool
	ShufflePorts bool

	// ShowClosed also reports ports that refused or timed out.
	ShowClosed bool

	// Output mirrors every result line into a CSV file.
	Output string

	// ResolveDNS reverse-resolves addresses of open ports.
	ResolveDNS bool

	// StatsInterval emits runtime stats to stderr every N seconds; 0 off.
	StatsInterval int

	// Loop repeats the scan N times; 0 means continuous.
	Loop int

	// LoopOpen repeats until all probed ports are open; LoopClose until
	// all are closed. Mutually exclusive.
	LoopOpen  bool
	LoopClose bool

	// Listen switches to the passive listener mode.
	Listen bool

	Verbose bool
	Debug   bool
}

// ParseOptions parses the command line and validates it. Configuration
// errors are fatal before any scanning begins.
func ParseOptions() *Options {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("tcpscan: a simple, multi-threaded IPv4 TCP port scanner\n" + ShowUsage())

	flagSet.CreateGroup("input", "Target",
		flagSet.StringVarP(&options.Target, "target", "t", "127.0.0.1", "target to scan, e.g. 192.168.1.0/24, 192.168.1.100, www.example.com"),
		flagSet.StringVarP(&options.SkipNetwork, "skip-netblock", "x", "", "skip a sub-netblock, e.g. 192.168.1.96/28"),
	)

	flagSet.CreateGroup("ports", "Ports",
		flagSet.StringVarP(&options.Ports, "ports", "p", "", "comma separated list or hyphenated range, e.g. 22,80,443 or 80-515 or all (default: common ports)"),
		flagSet.StringVarP(&options.SkipPorts, "skip-ports", "X", "", "exclude a subset of ports, e.g. 135-139"),
		flagSet.BoolVarP(&options.ShufflePorts, "shuffle-ports", "S", false, "randomize the order ports are scanned"),
		flagSet.BoolVarP(&options.ShuffleHosts, "shuffle-hosts", "s", false, "randomize the order hosts are scanned"),
	)

	flagSet.CreateGroup("rate", "Rate",
		flagSet.IntVarP(&options.Workers, "workers", "T", 100, "number of concurrent workers"),
		flagSet.IntVarP(&options.Timeout, "timeout", "ct", 0, "connect timeout in milliseconds (default: 70 for lan, 180 for wan)"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.Output, "output", "o", "", "mirror results to CSV file"),
		flagSet.BoolVarP(&options.ShowClosed, "closed", "c", false, "output ports that are closed"),
		flagSet.BoolVarP(&options.ResolveDNS, "dns", "d", false, "resolve IPs to host names"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "output statistics and excluded hosts/ports"),
		flagSet.IntVarP(&options.StatsInterval, "runtime", "r", 0, "periodically display runtime stats every N seconds to stderr"),
		flagSet.BoolVar(&options.Debug, "debug", false, "enable debug logging"),
	)

	flagSet.CreateGroup("loop", "Loop",
		flagSet.IntVarP(&options.Loop, "loop", "l", 1, "repeat the port scan N times, 0 for continuous"),
		flagSet.BoolVarP(&options.LoopOpen, "loop-open", "lo", false, "repeat the port scan until all port(s) are open"),
		flagSet.BoolVarP(&options.LoopClose, "loop-close", "lc", false, "repeat the port scan until all port(s) are closed"),
	)

	flagSet.CreateGroup("listen", "Listen",
		flagSet.BoolVarP(&options.Listen, "listen", "L", false, "listen on the given TCP port(s) for incoming connections instead of scanning"),
	)

	_ = flagSet.Parse()

	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}

	if err := options.Verify(); err != nil {
		gologger.Fatal().Msg(err.Error())
	}

	return options
}

// Verify rejects conflicting or out-of-range configuration.
func (options *Options) Verify() error {
	if options.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", options.Workers)
	}
	if options.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", options.Timeout)
	}
	if options.StatsInterval < 0 {
		return fmt.Errorf("runtime stats interval must not be negative, got %d", options.StatsInterval)
	}
	if options.LoopOpen && options.LoopClose {
		return fmt.Errorf("loop-open and loop-close are mutually exclusive")
	}
	if options.Loop < 0 {
		return fmt.Errorf("loop count must not be negative, got %d", options.Loop)
	}
	if options.Listen && options.Ports == "" {
		return fmt.Errorf("listen mode requires an explicit port spec")
	}

	// loop-until policies repeat indefinitely; a simultaneous explicit
	// count is overridden.
	if options.LoopOpen || options.LoopClose {
		options.Loop = 0
	}

	if options.Ports == "" {
		options.Ports = portscan.DefaultPorts
	}

	// Config errors in the specs surface before any scanning begins.
	if _, err := portscan.ParsePortSpec(options.Ports); err != nil {
		return err
	}
	if _, err := portscan.ParseSkipPorts(options.SkipPorts); err != nil {
		return err
	}
	if _, err := portscan.ParseSkipNetwork(options.SkipNetwork); err != nil {
		return err
	}

	return nil
}

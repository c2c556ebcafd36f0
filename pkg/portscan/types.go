package portscan

// ProbeOutcome classifies a single port probe.
type ProbeOutcome int

const (
	OutcomeClosed ProbeOutcome = iota
	OutcomeOpen
	OutcomeExcluded
)

func (o ProbeOutcome) String() string {
	switch o {
	case OutcomeOpen:
		return "open"
	case OutcomeExcluded:
		return "port-excluded"
	default:
		return "closed"
	}
}

// ScanResult maps each probed port of one host scan to its open state.
// Excluded ports never appear.
type ScanResult map[int]bool

// AllOpen reports whether every probed port accepted a connection. An empty
// result is vacuously all-open, so a pass that probed nothing still
// terminates an until-open loop.
func (r ScanResult) AllOpen() bool {
	for _, open := range r {
		if !open {
			return false
		}
	}
	return true
}

// AllClosed reports whether no probed port accepted a connection.
func (r ScanResult) AllClosed() bool {
	for _, open := range r {
		if open {
			return false
		}
	}
	return true
}

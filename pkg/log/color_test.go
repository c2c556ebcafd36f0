package log

import (
	"testing"

	"github.com/gookit/color"
)

func TestGetColorMapsEveryStatus(t *testing.T) {
	// Force-disable rendering so the mapping can be asserted byte-exact.
	color.Disable()

	c := NewColor()
	for _, status := range []string{"open", "closed", "port-excluded", "host-excluded", "OPEN"} {
		if got := c.GetColor(status, "payload"); got != "payload" {
			t.Fatalf("status %q mangled the payload: got=%q", status, got)
		}
	}
	if got := c.GetColor("bogus", "payload"); got != "payload" {
		t.Fatalf("unknown status must pass through: got=%q", got)
	}
}

package log

import (
	"os"
	"runtime"
	"strings"

	"github.com/gookit/color"
)

var (
	EnableColor = true
)

type Color struct {
	Open     func(a ...any) string
	Closed   func(a ...any) string
	Excluded func(a ...any) string
	Time     func(a ...any) string
	Banner   func(a ...any) string
	Bold     func(a ...any) string
	Green    func(a ...any) string
	Stats    func(a ...any) string
}

var LogColor *Color

func init() {
	detectTerminal()

	if LogColor == nil {
		LogColor = NewColor()
	}
}

func detectTerminal() {
	if runtime.GOOS == "windows" {
		_, wt := os.LookupEnv("WT_SESSION")
		_, ansi := os.LookupEnv("ANSICON")
		EnableColor = wt || ansi
	} else {
		fi, _ := os.Stdout.Stat()
		EnableColor = (fi.Mode() & os.ModeCharDevice) != 0
	}
}

func NewColor() *Color {
	return &Color{
		Open:     color.FgLightGreen.Render,
		Closed:   color.Gray.Render,
		Excluded: color.FgYellow.Render,
		Time:     color.Gray.Render,
		Banner:   color.FgLightGreen.Render,
		Bold:     color.Bold.Render,
		Green:    color.FgLightGreen.Render,
		Stats:    color.HiCyan.Render,
	}
}

// GetColor picks the render function matching a probe status string. Unknown
// statuses pass through unrendered.
func (c *Color) GetColor(status string, log string) string {
	switch strings.ToLower(status) {
	case "open":
		return c.Open(log)
	case "closed":
		return c.Closed(log)
	case "port-excluded", "host-excluded":
		return c.Excluded(log)
	default:
		return log
	}
}

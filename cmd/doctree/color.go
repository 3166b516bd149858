package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// palette holds the colors of the command output.
type palette struct {
	heading *color.Color
	table   *color.Color
	control *color.Color
	faint   *color.Color
	added   *color.Color
	removed *color.Color
}

func checkColorMode(*cobra.Command, []string) error {
	switch colorMode {
	case "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("invalid --color %q: use auto, always or never", colorMode)
}

// newPalette returns colors for w. In auto mode colors are only used when w
// is a terminal.
func newPalette(w io.Writer) *palette {
	p := &palette{
		heading: color.New(color.FgCyan, color.Bold),
		table:   color.New(color.FgYellow),
		control: color.New(color.FgMagenta),
		faint:   color.New(color.Faint),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	enabled := colorMode == "always"
	if colorMode == "auto" {
		if f, ok := w.(*os.File); ok {
			enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	for _, c := range []*color.Color{p.heading, p.table, p.control, p.faint, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

package main

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// palette colors CLI output. A disabled palette returns text unchanged.
type palette struct {
	err, ok, dim func(a ...interface{}) string
}

func newPalette(enabled bool) *palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &palette{
		err: mk(color.FgRed),
		ok:  mk(color.FgGreen),
		dim: mk(color.FgHiBlack),
	}
}

// ShouldUseColor determines if color output should be used.
// Respects --no-color flag and NO_COLOR environment variable.
func ShouldUseColor(noColorFlag bool, w io.Writer) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

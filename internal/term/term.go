// Package term provides terminal detection and color-mode resolution.
//
// Color output itself is handled by the console log writer and the banner;
// this package only answers whether colors should be on, honoring the
// configured mode, TTY detection, and the NO_COLOR convention
// (https://no-color.org).
package term

import (
	"os"
	"strings"

	"github.com/backmassage/gridmaster/internal/config"
)

// Resolve determines whether ANSI colors should be enabled for the given
// mode. Auto mode requires stderr to be a TTY, NO_COLOR to be unset, and a
// terminal that is not "dumb".
func Resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stderr) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

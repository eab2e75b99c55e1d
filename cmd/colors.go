package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jwalton/go-supportscolor"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// colorEnabled reports whether w is a terminal that understands ANSI colours.
func colorEnabled(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return supportscolor.SupportsColor(f.Fd()).SupportsColor
}

func formatStatusWithColor(status string) string {
	switch strings.ToLower(status) {
	case "pass", "good":
		return colorSuccess(status)
	case "warning", "warn", "medium":
		return colorWarn(status)
	case "fail", "poor":
		return colorError(status)
	default:
		return status
	}
}

package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/thoreinstein/orcabackup/internal/errors"
)

// Styles for terminal output. fatih/color drops the escape codes when
// stdout is not a terminal or NO_COLOR is set.
var (
	styleOK     = color.New(color.FgGreen)
	styleWarn   = color.New(color.FgYellow)
	styleError  = color.New(color.FgRed, color.Bold)
	styleHeader = color.New(color.FgCyan, color.Bold)
	styleBold   = color.New(color.Bold)
	styleFaint  = color.New(color.FgHiBlack)
)

// PrintError writes err and its suggestion, if any, to w. An ExitError
// without an underlying error prints nothing; the command already reported.
func PrintError(w io.Writer, err error) {
	var exitErr *errors.ExitError
	hasExit := errors.As(err, &exitErr)
	if hasExit && exitErr.Err == nil {
		return
	}

	fmt.Fprintf(w, "%s %v\n", styleError.Sprint("Error:"), err)
	if hasExit && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}

// bytesString formats a size like "1.2 MB".
func bytesString(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// timeString formats t in local time, followed by a relative hint.
func timeString(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05") + " (" + humanize.Time(t) + ")"
}

// plural returns "1 file" or "3 files".
func plural(n int, word string) string {
	return humanize.Comma(int64(n)) + " " + word + pluralSuffix(n)
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoEditor indicates no editor command could be determined.
var ErrNoEditor = errors.New("no editor found")

// Editor runs an editor command attached to the given streams.
type Editor struct {
	// Command is the editor and its leading arguments, e.g. "code --wait".
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Editor for the detected command attached to the
// process's standard streams.
func New() *Editor {
	return &Editor{
		Command: detectEditor(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit opens path and blocks until the editor exits.
func (e *Editor) Edit(ctx context.Context, path string) error {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return ErrNoEditor
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %q", args[0])
	}
	return nil
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $VISUAL → $EDITOR → nano → vi,
// or notepad on Windows.
func detectEditor() string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}

	// User-friendly fallback (nano is easier for beginners)
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	// POSIX standard fallback
	return "vi"
}

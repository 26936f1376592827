// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/orcabackup/internal/errors"
)

// Sentinel errors for selection and confirmation prompts.
var (
	ErrNoOptions          = errors.New("no options to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Option is one entry of a selection prompt.
type Option struct {
	// Label is the line shown in the list.
	Label string

	// Detail is shown in parentheses after the label, or in the preview
	// pane of the fuzzy finder.
	Detail string
}

// Selector handles line-based selection and confirmation prompts.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// readLine returns the next trimmed input line. A final line without a
// newline is accepted; EOF before any input is ErrSelectionCancelled.
func (s *Selector) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading input")
		}
		if input == "" {
			return "", ErrSelectionCancelled
		}
	}
	return strings.TrimSpace(input), nil
}

// Select prompts the user to choose one of options and returns its index.
//
// Returns:
//   - ErrNoOptions if the list is empty
//   - 0 if only one option exists (auto-selects without prompting)
//   - The selected index based on user input (empty input picks the first)
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) Select(title string, options []Option) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}

	if len(options) == 1 {
		return 0, nil
	}

	fmt.Fprintf(s.writer, "%s:\n", title)
	for i, o := range options {
		if o.Detail != "" {
			fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, o.Label, o.Detail)
		} else {
			fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, o.Label)
		}
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := s.readLine()
	if err != nil {
		return 0, err
	}

	if input == "" {
		return 0, nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	// 1-indexed
	if selection < 1 || selection > len(options) {
		return 0, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(options))
	}

	return selection - 1, nil
}

// Confirm asks a yes/no question. Empty input returns defaultYes; EOF
// answers no.
func (s *Selector) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for {
		fmt.Fprintf(s.writer, "%s %s: ", question, hint)

		input, err := s.readLine()
		if errors.Is(err, ErrSelectionCancelled) {
			fmt.Fprintln(s.writer)
			return false, nil
		}
		if err != nil {
			return false, err
		}

		switch strings.ToLower(input) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(s.writer, "Please answer yes or no.")
	}
}

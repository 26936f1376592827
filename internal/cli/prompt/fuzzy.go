package prompt

import (
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/orcabackup/internal/errors"
)

// Find runs a full-screen fuzzy finder over options and returns the chosen
// index. Details are rendered in the preview pane. Aborting (Esc, Ctrl+C)
// returns ErrSelectionCancelled.
func Find(options []Option) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}

	idx, err := fuzzyfinder.Find(
		options,
		func(i int) string {
			return options[i].Label
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return options[i].Detail
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return 0, ErrSelectionCancelled
		}
		return 0, errors.Wrap(err, "interactive selection failed")
	}

	return idx, nil
}

// Package logging provides structured logging for the orcabackup CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package; the text handler colorizes levels with
// github.com/fatih/color when writing to a terminal.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("export complete", "path", "/tmp/orca.zip", "files", 42)
//
// # Verbosity
//
// [LevelFromVerbosity] maps the count of -v flags to a level: warnings only by
// default, then info, debug and finally [LevelTrace].
//
// # Context
//
// Commands attach their logger to the command context with [NewContext] and
// retrieve it with [FromContext], which falls back to [slog.Default].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging

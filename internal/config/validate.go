package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not one this build reads.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidValue indicates a numeric or list value is out of range.
	ErrInvalidValue = errors.New("invalid value")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, errors.Mark(errors.Newf("unsupported config version: %d", cfg.Version), ErrUnsupportedVersion))
	}

	for _, f := range []struct {
		field string
		path  string
	}{
		{"archive_dir", cfg.ArchiveDir},
		{"config_dir", cfg.ConfigDir},
		{"install_dir", cfg.InstallDir},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &FieldError{Field: f.field, Value: f.path, Err: err})
		}
	}

	for _, dir := range cfg.ExcludedDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			errs = append(errs, &FieldError{Field: "excluded_dirs", Value: dir, Err: ErrInvalidValue})
		}
	}

	if cfg.Compare.ContentThreshold < 0 {
		errs = append(errs, &FieldError{Field: "compare.content_threshold", Value: cfg.Compare.ContentThreshold, Err: ErrInvalidValue})
	}
	if cfg.Process.WaitTimeout < 0 {
		errs = append(errs, &FieldError{Field: "process.wait_timeout", Value: cfg.Process.WaitTimeout, Err: ErrInvalidValue})
	}
	if cfg.Process.PollInterval < 0 {
		errs = append(errs, &FieldError{Field: "process.poll_interval", Value: cfg.Process.PollInterval, Err: ErrInvalidValue})
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an error for a specific config field.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + formatValue(e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return strings.ReplaceAll(s, "\x00", `\0`)
	}
	return fmt.Sprint(v)
}

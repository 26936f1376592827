package backup

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/logging"
)

// Resolver locates the configuration directory and installation.
// *platform.Resolver satisfies it.
type Resolver interface {
	ResolveInstallation() (string, bool)
	ResolveConfigDirectory() (string, bool)
	DefaultConfigDirectory() string
}

// Engine exports and imports configuration archives.
type Engine struct {
	resolver   Resolver
	logger     *slog.Logger
	platformID string
	now        func() time.Time
	confirm    ConfirmFunc
	excluder   archive.Excluder
	validate   func(path string) error
	hooks      hooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPlatformID sets the platform recorded in archive metadata.
// Defaults to runtime.GOOS.
func WithPlatformID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.platformID = id
		}
	}
}

// WithClock sets the time source for export dates and safety backup names.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithConfirm sets the function asked when the safety backup fails.
// Without one, a failed safety backup aborts the import.
func WithConfirm(fn ConfirmFunc) Option {
	return func(e *Engine) {
		e.confirm = fn
	}
}

// WithExcluder replaces the default exclusion rules for export.
func WithExcluder(ex archive.Excluder) Option {
	return func(e *Engine) {
		e.excluder = ex
	}
}

// WithValidator replaces archive.Validate as the archive gatekeeper.
func WithValidator(fn func(path string) error) Option {
	return func(e *Engine) {
		if fn != nil {
			e.validate = fn
		}
	}
}

// NewEngine creates an Engine backed by resolver.
func NewEngine(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver:   resolver,
		logger:     logging.NewDiscard(),
		platformID: runtime.GOOS,
		now:        time.Now,
		excluder:   archive.DefaultExcluder(),
		validate:   archive.Validate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

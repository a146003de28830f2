package fluentlite

import (
	"github.com/fluentlite/fluentlite/config"
	"github.com/fluentlite/fluentlite/logging"
)

// defaultTimeout is the engine busy-timeout applied when Options.Timeout
// is zero (milliseconds).
const defaultTimeout = 30000

// Logger is the logging capability injected into the facade.
//
// *logging.Logger satisfies it, as does *slog.Logger. Logging is never
// ambient: the facade only writes through this port.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options configures a facade instance. The zero value is usable:
// logging off, 30 second busy timeout, read-write, file created on demand.
type Options struct {
	// Logging enables operational logging. When false all log output is
	// discarded regardless of Logger.
	Logging bool

	// Logger receives log records when Logging is true. Defaults to a
	// JSON slog logger on stdout.
	Logger Logger

	// Timeout is the engine busy-timeout in milliseconds. Zero means
	// 30000.
	Timeout int

	// Verbose additionally logs every statement with its bound values
	// at debug level.
	Verbose bool

	// Readonly opens the database read-only.
	Readonly bool

	// FileMustExist makes Connect fail when the database file is absent
	// instead of creating it.
	FileMustExist bool
}

// OptionsFromConfig converts a loaded file configuration into facade
// Options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Logging:       cfg.Logging.Enabled,
		Timeout:       cfg.Database.BusyTimeout,
		Verbose:       cfg.Database.Verbose,
		Readonly:      cfg.Database.Readonly,
		FileMustExist: cfg.Database.FileMustExist,
	}
	if cfg.Logging.Enabled {
		opts.Logger = logging.New(cfg.Logging, Version)
	}
	return opts
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
	if o.Logger == nil {
		if o.Logging {
			o.Logger = logging.Default()
		} else {
			o.Logger = logging.Discard()
		}
	} else if !o.Logging {
		o.Logger = logging.Discard()
	}
	return o
}

package typecheck

import (
	"io"
	"os"
)

// Level decides what a mismatch does.
type Level int

const (
	// Strict fails the call with errors.ErrTypeContract.
	Strict Level = iota
	// Warn prints and logs a TypeWarning, then carries on.
	Warn
	// Off skips the check.
	Off
)

func (l Level) String() string {
	switch l {
	case Strict:
		return "strict"
	case Warn:
		return "warn"
	case Off:
		return "off"
	default:
		return "unknown"
	}
}

// Option configures Accepts and Returns.
type Option func(*options)

type options struct {
	level  Level
	writer io.Writer
}

func newOptions(opts []Option) *options {
	o := &options{
		level:  Strict,
		writer: os.Stderr,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o
}

// WithLevel sets how mismatches are handled. The default is Strict.
func WithLevel(level Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithWriter sets where Warn prints. The default is os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

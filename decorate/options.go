package decorate

import (
	"io"
	"os"
)

// Option configures the decorators in this package that accept options.
// Options that don't apply to a given decorator are ignored.
type Option func(*options)

type options struct {
	writer  io.Writer // console output for notices and reports
	message string
	block   bool
	report  bool
}

func newOptions(defaults options, opts []Option) *options {
	o := defaults

	if o.writer == nil {
		o.writer = os.Stdout
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return &o
}

// WithWriter sends console output (warnings, reports) to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithMessage overrides the decorator's default message.
func WithMessage(msg string) Option {
	return func(o *options) {
		o.message = msg
	}
}

// WithPrintOnly makes an announcer print its warning and then call the
// function, instead of failing.
func WithPrintOnly() Option {
	return func(o *options) {
		o.block = false
	}
}

// WithBlock makes an announcer fail instead of calling the function.
func WithBlock() Option {
	return func(o *options) {
		o.block = true
	}
}

// WithReport makes Suppress print and log the failures it swallows.
func WithReport() Option {
	return func(o *options) {
		o.report = true
	}
}

// Package policy declares decorator stacks in YAML instead of code, so
// retry counts, timeouts and limits can change without a rebuild:
//
//	policies:
//	  fetch:
//	    retry: {retries: 3, backoff: 10ms}
//	    timeout: 2s
//	    limit: 100
//
// Load a document, pick a policy by name and Build it into a decorator:
//
//	doc, err := policy.LoadFromEnv()
//	p, err := doc.Get("fetch")
//	fetch := decorate.Apply(fetchURL, policy.Build[string, []byte](p))
package policy

import (
	"fmt"
	"time"

	"github.com/amp-labs/amp-decorators/errors"
)

var (
	ErrInvalidPolicy = errors.New("invalid policy")
	ErrUnknownPolicy = errors.New("unknown policy")
)

// Document is a parsed policy file.
type Document struct {
	Policies map[string]Policy `yaml:"policies"`
}

// Policy is the decorator settings for one function. Zero values mean the
// corresponding decorator is left out.
type Policy struct {
	Deprecated *Notice       `yaml:"deprecated,omitempty"`
	WIP        *Notice       `yaml:"wip,omitempty"`
	Limit      *int          `yaml:"limit,omitempty"`
	Trace      bool          `yaml:"trace,omitempty"`
	Timing     *Timing       `yaml:"timing,omitempty"`
	Suppress   bool          `yaml:"suppress,omitempty"`
	Retry      *Retry        `yaml:"retry,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	SlowDown   time.Duration `yaml:"slow_down,omitempty"`
}

// Notice configures the deprecation and work-in-progress announcers.
type Notice struct {
	Message   string `yaml:"message"`
	PrintOnly bool   `yaml:"print_only,omitempty"` // deprecated only; the default blocks
	Block     bool   `yaml:"block,omitempty"`      // wip only; the default prints
}

// Timing configures the execution timer.
type Timing struct {
	Enabled *bool `yaml:"enabled,omitempty"` // unset follows DECORATORS_TIMING_DISABLED
	Times   int   `yaml:"times,omitempty"`
}

// Retry configures retry-on-error. MaxBackoff turns the constant Backoff
// into an exponential one capped at MaxBackoff; it is only valid together
// with Backoff.
type Retry struct {
	Retries    int           `yaml:"retries"`
	Backoff    time.Duration `yaml:"backoff,omitempty"`
	MaxBackoff time.Duration `yaml:"max_backoff,omitempty"`
}

// Get returns the named policy.
func (d *Document) Get(name string) (Policy, error) {
	p, ok := d.Policies[name]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}

	return p, nil
}

// Validate checks every policy in the document.
func (d *Document) Validate() error {
	errs := &errors.Collection{}

	for name, p := range d.Policies {
		if err := p.Validate(); err != nil {
			errs.Add(fmt.Errorf("policy %q: %w", name, err))
		}
	}

	return errs.GetError()
}

// Validate rejects settings the decorators would refuse at build time.
func (p Policy) Validate() error {
	errs := &errors.Collection{}

	invalid := func(format string, args ...any) {
		errs.Add(fmt.Errorf("%w: %s", ErrInvalidPolicy, fmt.Sprintf(format, args...)))
	}

	if p.Limit != nil && *p.Limit < 0 {
		invalid("limit must be >= 0, got %d", *p.Limit)
	}

	if p.Timing != nil && p.Timing.Times < 0 {
		invalid("timing.times must be >= 1, got %d", p.Timing.Times)
	}

	if p.Retry != nil {
		if p.Retry.Retries < 0 {
			invalid("retry.retries must be >= 0, got %d", p.Retry.Retries)
		}

		if p.Retry.Backoff < 0 || p.Retry.MaxBackoff < 0 {
			invalid("retry backoff must not be negative")
		}

		if p.Retry.MaxBackoff > 0 && p.Retry.Backoff == 0 {
			invalid("retry.max_backoff %s needs a retry.backoff to grow from", p.Retry.MaxBackoff)
		}

		if p.Retry.MaxBackoff > 0 && p.Retry.MaxBackoff < p.Retry.Backoff {
			invalid("retry.max_backoff %s is shorter than retry.backoff %s", p.Retry.MaxBackoff, p.Retry.Backoff)
		}
	}

	if p.Timeout < 0 {
		invalid("timeout must not be negative, got %s", p.Timeout)
	}

	if p.SlowDown < 0 {
		invalid("slow_down must not be negative, got %s", p.SlowDown)
	}

	return errs.GetError()
}

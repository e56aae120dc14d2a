package utils

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrGetwd is returned when os.Getwd fails.
	ErrGetwd = errors.New("os.Getwd failed")
	// ErrChdir is returned when os.Chdir fails.
	ErrChdir = errors.New("os.Chdir failed")
)

// Pushd will chdir to a different directory, call the callback,
// and then restore the old working directory when the function exits.
// The directory is restored even if the callback panics; the panic
// continues unwinding after the restore.
func Pushd(path string, fn func() error) (errOut error) {
	if path == "." {
		return fn()
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGetwd, err)
	}

	if err := os.Chdir(path); err != nil {
		return fmt.Errorf("%w: %w", ErrChdir, err)
	}

	defer func() {
		if e := os.Chdir(wd); e != nil {
			errOut = errors.Join(errOut, fmt.Errorf("%w: %w", ErrChdir, e))
		}
	}()

	return fn()
}

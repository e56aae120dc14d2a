package retry

import (
	"errors"

	"github.com/cenkalti/backoff/v5"
)

// ErrRetriesExhausted is returned, joined with the last failure, once every
// attempt has failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Abort marks an error as permanent: the retry loop stops immediately and
// returns err itself.
//
//	if err := validateInput(data); err != nil {
//	    return retry.Abort(err)  // Don't retry validation errors
//	}
func Abort(err error) error {
	if err == nil {
		return nil
	}

	return backoff.Permanent(err)
}

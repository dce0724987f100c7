package kafka

import (
	"errors"
	"fmt"
)

// errPermanent tags delivery failures that must not be retried, such as an
// undecodable payload or a message the broker refuses outright.
var errPermanent = errors.New("permanent error")

// Permanent tags err as non-retryable. The original error stays reachable via
// errors.Is and errors.As.
func Permanent(err error) error {
	if err == nil {
		return errPermanent
	}
	return fmt.Errorf("%w: %w", err, errPermanent)
}

// IsPermanent reports whether err was tagged by Permanent.
func IsPermanent(err error) bool {
	return errors.Is(err, errPermanent)
}

package ledger

import (
	"errors"
	"fmt"
)

// ErrTicketNotFound means the indexer answered and the token does not exist.
// A transport failure is reported as *NetworkError instead, never as this.
var ErrTicketNotFound = errors.New("ledger: ticket not found")

// NetworkError wraps any transport failure or malformed indexer response.
// Callers must treat it as "unknown", not as a negative answer.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: indexer unavailable: %s", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

package quote

import (
	"context"
	"errors"
)

// Source provides the latest traded price for the tracked symbol.
// Implementations must return a positive price or an error; they never
// panic across this boundary. Retrying is the caller's concern.
type Source interface {
	Latest(ctx context.Context) (float64, error)
}

var (
	// ErrNoPrice indicates the upstream answered but carried no usable price.
	ErrNoPrice = errors.New("no price available in response")
	// ErrUnavailable indicates the upstream is being skipped because the
	// circuit breaker is open.
	ErrUnavailable = errors.New("quote source unavailable")
)

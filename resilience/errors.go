package resilience

import "errors"

// ErrTimeout is returned when an operation outlives its deadline.
var ErrTimeout = errors.New("resilience: operation timed out")

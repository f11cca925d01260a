package domain

import (
	"errors"
	"fmt"
)

// Catalog errors
var (
	ErrNetwork        = errors.New("network error")
	ErrNotFound       = errors.New("not found")
	ErrDecode         = errors.New("decode error")
	ErrAggregateFetch = errors.New("champion fetch failed")
	ErrUnknownPlugin  = errors.New("unknown plugin")
)

// Server errors
var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrSyncDisabled   = errors.New("sync endpoint disabled: JWT_SECRET not set")
)

// AggregateFetchError wraps the first champion fetch that failed during a
// fan-out. It matches ErrAggregateFetch and whatever the underlying error
// matches.
type AggregateFetchError struct {
	ID  uint64
	Err error
}

func (e *AggregateFetchError) Error() string {
	return fmt.Sprintf("champion fan-out failed at id %d: %v", e.ID, e.Err)
}

func (e *AggregateFetchError) Unwrap() error {
	return e.Err
}

func (e *AggregateFetchError) Is(target error) bool {
	return target == ErrAggregateFetch
}

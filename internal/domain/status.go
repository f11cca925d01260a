package domain

import "fmt"

// SyncStatus tracks how the local copy of the catalog relates to the remote one.
type SyncStatus int

const (
	StatusUninitialized SyncStatus = iota
	StatusOutOfDate
	StatusUpToDate
)

func (s SyncStatus) String() string {
	switch s {
	case StatusUninitialized:
		return "Uninitialized"
	case StatusOutOfDate:
		return "OutOfDate"
	case StatusUpToDate:
		return "UpToDate"
	default:
		return fmt.Sprintf("SyncStatus(%d)", int(s))
	}
}

func (s SyncStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SyncStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Uninitialized":
		*s = StatusUninitialized
	case "OutOfDate":
		*s = StatusOutOfDate
	case "UpToDate":
		*s = StatusUpToDate
	default:
		return fmt.Errorf("%w: unknown sync status %q", ErrDecode, string(text))
	}
	return nil
}

package domain

import "errors"

// Error taxonomy for the discovery pipeline. Callers match with errors.Is.
var (
	// ErrQuotaExceeded indicates the search API reported quota exhaustion.
	// Further search calls will fail until the quota window resets, so the
	// orchestrator stops issuing searches but keeps what was collected.
	ErrQuotaExceeded = errors.New("api quota exceeded")

	// ErrChannelNotFound indicates a detail fetch returned no channel.
	// The identifier is skipped, not retried.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrStoreUnavailable indicates the config or results store could not
	// be read. Config reads fall back to defaults; dedup reads fall back
	// to an empty existing-set.
	ErrStoreUnavailable = errors.New("store unavailable")
)

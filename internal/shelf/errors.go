package shelf

import "errors"

// Sentinel errors for the fallible steps of the ingestion pipeline. They are
// wrapped with context via fmt.Errorf and matched with errors.Is. All of
// them are scoped to a single item: the batch continues past them.
var (
	// ErrContentUnreadable means source bytes could not be read or decoded.
	ErrContentUnreadable = errors.New("content unreadable")

	// ErrStorageWriteFailed means the copy into the artifact location failed.
	ErrStorageWriteFailed = errors.New("storage write failed")

	// ErrStorageReadFailed means a previously-stored artifact could not be
	// read back. Non-fatal: callers fall back to a placeholder.
	ErrStorageReadFailed = errors.New("storage read failed")
)

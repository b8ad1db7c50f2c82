package leave

import "errors"

var (
	ErrNotFound = errors.New("leave not found")
	// ErrStale is returned by conditional writes when the leave is no longer
	// pending at write time.
	ErrStale = errors.New("leave no longer pending")
)

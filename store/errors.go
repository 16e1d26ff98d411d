package store

import "errors"

// Sentinel errors surfaced to the request layer. Wrap with fmt.Errorf and
// %w so callers can test with errors.Is while keeping a useful message.
var (
	// ErrDuplicateKey means a create would reuse a trackId that is already rated.
	ErrDuplicateKey = errors.New("duplicate track id")

	// ErrNotFound means the addressed entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrValidation means the input was rejected and nothing changed.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyRated means an unrated add was skipped because the track is rated.
	ErrAlreadyRated = errors.New("track already rated")

	// ErrAlreadyUnrated means an unrated add was skipped because the track is
	// already in the unrated set.
	ErrAlreadyUnrated = errors.New("track already in unrated")
)

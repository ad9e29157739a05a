package serverchan

import "errors"

var (
	// ErrEmptySendKey is returned by New when the credential is blank.
	ErrEmptySendKey = errors.New("serverchan: send key is required")

	// ErrEmptyTitle is returned when a message has no title after trimming.
	ErrEmptyTitle = errors.New("serverchan: title is required")

	// ErrDuplicate is returned when an identical notification was already
	// sent inside the configured dedupe window.
	ErrDuplicate = errors.New("serverchan: duplicate notification suppressed")

	// ErrNotInitialized is returned by Default before InitDefault ran.
	ErrNotInitialized = errors.New("serverchan: default client not initialized, call serverchan.InitDefault first")
)

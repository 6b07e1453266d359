package resolver

import "errors"

var (
	// ErrMissingInput indicates the required source URL was absent.
	ErrMissingInput = errors.New("missing input")
	// ErrNoPlayableStream indicates no rendition yielded a usable stream location.
	ErrNoPlayableStream = errors.New("no playable stream")
	// ErrUnavailable indicates the source is unavailable or private.
	ErrUnavailable = errors.New("video unavailable")
	// ErrAgeRestricted indicates the source requires age verification.
	ErrAgeRestricted = errors.New("age restricted")
	// ErrTakedown indicates the source was removed over a copyright claim.
	ErrTakedown = errors.New("removed for copyright")
	// ErrExtraction indicates the extraction collaborator failed in a way the
	// taxonomy cannot classify further.
	ErrExtraction = errors.New("extraction failed")
)

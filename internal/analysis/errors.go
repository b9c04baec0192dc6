package analysis

import "errors"

var (
	// ErrNoInput means there was nothing to analyze at all: no image, no
	// text, no entries. This is a hard failure, unlike the "text present
	// but no composition recognized" outcome which is a normal response.
	ErrNoInput = errors.New("no input to analyze")

	// ErrInvalidComposition flags a manually entered composition that does
	// not sum to 100 or has missing/out-of-range entries. Manual entry is
	// never auto-repaired; the user is asked to correct it.
	ErrInvalidComposition = errors.New("invalid composition")
)

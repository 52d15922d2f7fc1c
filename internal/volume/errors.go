package volume

import "errors"

var (
	// ErrDimensionMismatch is returned when the element count or file size
	// disagrees with the declared dimensions.
	ErrDimensionMismatch = errors.New("volume: dimension mismatch")

	// ErrTruncatedRead is returned when a file ends before the declared
	// amount of data was read.
	ErrTruncatedRead = errors.New("volume: truncated read")

	// ErrInvalidDimensions is returned for non-positive dimensions.
	ErrInvalidDimensions = errors.New("volume: invalid dimensions")
)

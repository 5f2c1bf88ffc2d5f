package attention

import "errors"

var (
	// ErrNegativeThreshold is returned by Config.Validate for negative thresholds.
	ErrNegativeThreshold = errors.New("attention: threshold must not be negative")

	// ErrNonFiniteThreshold is returned by Config.Validate for NaN or infinite thresholds.
	ErrNonFiniteThreshold = errors.New("attention: threshold must be a finite number")

	// ErrUnknownAnchor is returned by Config.Validate for an unsupported match anchor.
	ErrUnknownAnchor = errors.New("attention: unknown match anchor")
)

package split

import "errors"

var (
	// ErrInvalidSplit indicates the recipient list violates the split contract:
	// shares not summing to 100, an empty list, a duplicate recipient, or a
	// malformed recipient address.
	ErrInvalidSplit = errors.New("split: invalid split")

	// ErrNothingToDistribute indicates the total amount is zero.
	ErrNothingToDistribute = errors.New("split: nothing to distribute")

	// ErrInvalidAddress indicates an address is not a well-formed hex address.
	ErrInvalidAddress = errors.New("split: invalid address")
)

package balance

import "errors"

var (
	// ErrInvalidAmount indicates a credit of zero.
	ErrInvalidAmount = errors.New("balance: invalid amount")

	// ErrInsufficientBalance indicates a debit larger than the current entry.
	ErrInsufficientBalance = errors.New("balance: insufficient balance")

	// ErrBalanceOverflow indicates a credit that would push the entry
	// past the maximum representable amount.
	ErrBalanceOverflow = errors.New("balance: balance overflow")
)

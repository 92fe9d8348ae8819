package ledger

import "errors"

var (
	// ErrNothingToWithdraw indicates the escrow entry is empty.
	ErrNothingToWithdraw = errors.New("ledger: nothing to withdraw")

	// ErrReleaseNotApproved indicates the conditional release gate has not
	// approved release for the song.
	ErrReleaseNotApproved = errors.New("ledger: release not approved")

	// ErrPaused indicates the ledger is paused and rejects state changes.
	ErrPaused = errors.New("ledger: paused")

	// ErrInvalidAddress indicates an account, payer, or asset identifier is
	// not a well-formed address.
	ErrInvalidAddress = errors.New("ledger: invalid address")

	// ErrNilParam indicates a required collaborator was nil.
	ErrNilParam = errors.New("ledger: nil parameter")
)

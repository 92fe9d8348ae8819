package condition

import "errors"

var (
	// ErrNotFound indicates no condition has been set for the song.
	ErrNotFound = errors.New("condition: not found")

	// ErrInvalidSignature indicates the report signature is malformed.
	ErrInvalidSignature = errors.New("condition: invalid signature")

	// ErrUnauthorizedOracle indicates the report was not signed by the
	// oracle registered for the song.
	ErrUnauthorizedOracle = errors.New("condition: unauthorized oracle")

	// ErrInvalidPeriod indicates the report period is empty or inverted.
	ErrInvalidPeriod = errors.New("condition: invalid report period")

	// ErrConditionNotMet indicates the release condition does not currently hold.
	ErrConditionNotMet = errors.New("condition: condition not met")

	// ErrApprovalNotRequired indicates manual approval was requested for a
	// condition that releases automatically.
	ErrApprovalNotRequired = errors.New("condition: approval not required")

	// ErrInvalidOracleKey indicates the oracle public key is not a valid
	// compressed secp256k1 key.
	ErrInvalidOracleKey = errors.New("condition: invalid oracle key")

	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("condition: nil parameter")
)

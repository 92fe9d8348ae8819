package ledger

// DepositedEvent is emitted for every accepted deposit.
type DepositedEvent struct {
	Account string
	Payer   string
	SongID  uint64
	AssetID string
	Amount  uint64
	ChainID uint64
}

// WithdrawnEvent is emitted once per payout recipient, in recipient-list
// order, after the escrow entry has been debited.
type WithdrawnEvent struct {
	Account   string
	SongID    uint64
	AssetID   string
	Recipient string
	Amount    uint64
}

// EventSink receives ledger events. Implementations must not block;
// delivery happens synchronously inside ledger operations.
type EventSink interface {
	Deposited(DepositedEvent)
	Withdrawn(WithdrawnEvent)
}

// nopSink discards all events.
type nopSink struct{}

func (nopSink) Deposited(DepositedEvent) {}
func (nopSink) Withdrawn(WithdrawnEvent) {}

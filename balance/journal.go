package balance

import (
	"github.com/sasha-s/go-deadlock"
)

// DepositRecord is one entry in the append-only deposit audit trail.
// The ledger appends a record for every accepted deposit; records are never
// updated or removed.
type DepositRecord struct {
	Payer     string
	Account   string // beneficiary
	SongID    uint64
	AssetID   string
	Amount    uint64
	ChainID   uint64 // origin chain of the deposit
	Timestamp int64  // unix seconds
}

// Key returns the escrow entry key this deposit credited.
func (r DepositRecord) Key() Key {
	return Key{Account: r.Account, SongID: r.SongID, AssetID: r.AssetID}
}

// Journal is the append-only deposit audit trail consumed by the ledger.
type Journal interface {
	// Append records a deposit. Records are immutable once appended.
	Append(rec DepositRecord) error

	// List returns all deposits for an escrow entry, in append order.
	List(key Key) ([]DepositRecord, error)
}

// MemJournal is an in-memory Journal.
type MemJournal struct {
	mu   deadlock.RWMutex
	recs []DepositRecord
}

// Compile-time interface check.
var _ Journal = (*MemJournal)(nil)

// NewMemJournal creates an empty in-memory journal.
func NewMemJournal() *MemJournal {
	return &MemJournal{}
}

// Append records a deposit.
func (j *MemJournal) Append(rec DepositRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recs = append(j.recs, rec)
	return nil
}

// List returns all deposits for key in append order.
func (j *MemJournal) List(key Key) ([]DepositRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	want := key.String()
	var out []DepositRecord
	for _, rec := range j.recs {
		if rec.Key().String() == want {
			out = append(out, rec)
		}
	}
	return out, nil
}

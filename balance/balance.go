// Package balance holds accrued escrow amounts keyed by
// (beneficiary account, song, asset).
//
// A Store never goes negative: credits require a positive amount and debits
// fail rather than overdraw. Amounts are integers in the asset's smallest
// unit. Two implementations are provided: an in-memory MemStore and a
// durable bbolt-backed BoltStore.
package balance

import (
	"fmt"
	"strings"
)

// AssetNative identifies the chain's native currency, matching the
// zero-address convention used for ETH in escrow contract calls.
const AssetNative = "0x0000000000000000000000000000000000000000"

// Key identifies one escrow entry.
type Key struct {
	Account string // beneficiary address
	SongID  uint64
	AssetID string // AssetNative or a fungible token address
}

// String returns a stable, printable encoding of the key. Addresses are
// lowercased so the same entry cannot exist under two casings.
func (k Key) String() string {
	return fmt.Sprintf("%s|%016x|%s",
		strings.ToLower(k.Account), k.SongID, strings.ToLower(k.AssetID))
}

// Store is the balance-keeping contract consumed by the escrow ledger.
type Store interface {
	// Credit increases the entry at key by amount. amount must be > 0.
	Credit(key Key, amount uint64) error

	// Debit decreases the entry at key by amount. Fails with
	// ErrInsufficientBalance if amount exceeds the current entry.
	Debit(key Key, amount uint64) error

	// Balance returns the current entry, zero if never credited.
	Balance(key Key) (uint64, error)
}

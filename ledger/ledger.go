// Package ledger orchestrates the royalty escrow: deposits accrue
// per-(beneficiary, song, asset) balances, withdrawals drain the full
// accrued balance and fan it out across a percentage split.
//
// The ledger performs no external I/O of its own. Signature checks, wallet
// interaction, and caller authorization all happen in the collaborator
// layer before a ledger operation is invoked. Duplicate submissions of the
// same logical deposit are NOT detected here: a retried deposit call
// double-credits, and callers must dedupe upstream.
package ledger

import (
	"fmt"
	"hash/fnv"
	"io"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/tunesplit/libroyalty-go/balance"
	"github.com/tunesplit/libroyalty-go/split"
)

// stripeCount is the number of key-lock stripes serializing withdrawals.
const stripeCount = 64

// ReleaseGate is the conditional-release predicate consulted before a
// conditional withdrawal. condition.Registry implements it.
type ReleaseGate interface {
	IsApproved(songID uint64) (bool, error)
}

// Clock supplies deposit timestamps, injected so the audit trail is
// testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DepositReceipt confirms an accepted deposit.
type DepositReceipt struct {
	Record  balance.DepositRecord
	Balance uint64 // escrow entry after the credit
}

// WithdrawReceipt confirms a completed withdrawal.
type WithdrawReceipt struct {
	Account string
	SongID  uint64
	AssetID string
	Total   uint64 // full accrued balance that was drained
	Payouts []split.Payout
}

// Ledger is the escrow ledger service. It exclusively owns its balance
// store and deposit journal; the release gate is consulted, never mutated.
type Ledger struct {
	balances balance.Store
	journal  balance.Journal
	gate     ReleaseGate

	// stripes serialize the read-balance → compute-split → debit sequence
	// per escrow key, so concurrent withdrawals of the same key cannot
	// both observe the pre-debit balance.
	stripes [stripeCount]deadlock.Mutex

	pauseMu deadlock.RWMutex
	paused  bool

	clock Clock
	log   logrus.FieldLogger
	sink  EventSink
}

// New creates a ledger over a balance store and deposit journal. gate may
// be nil for a ledger that never serves conditional escrows; conditional
// withdrawals then always fail with ErrReleaseNotApproved.
func New(balances balance.Store, journal balance.Journal, gate ReleaseGate) (*Ledger, error) {
	if balances == nil {
		return nil, fmt.Errorf("%w: balance store", ErrNilParam)
	}
	if journal == nil {
		return nil, fmt.Errorf("%w: deposit journal", ErrNilParam)
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return &Ledger{
		balances: balances,
		journal:  journal,
		gate:     gate,
		clock:    systemClock{},
		log:      quiet,
		sink:     nopSink{},
	}, nil
}

// SetLogger replaces the ledger's logger. Discards by default.
func (l *Ledger) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		l.log = log
	}
}

// SetEventSink replaces the ledger's event sink.
func (l *Ledger) SetEventSink(sink EventSink) {
	if sink != nil {
		l.sink = sink
	}
}

// SetClock replaces the deposit timestamp source.
func (l *Ledger) SetClock(clock Clock) {
	if clock != nil {
		l.clock = clock
	}
}

// Pause stops deposits and withdrawals. Reads stay available.
func (l *Ledger) Pause() {
	l.pauseMu.Lock()
	l.paused = true
	l.pauseMu.Unlock()
	l.log.Warn("ledger paused")
}

// Unpause resumes deposits and withdrawals.
func (l *Ledger) Unpause() {
	l.pauseMu.Lock()
	l.paused = false
	l.pauseMu.Unlock()
	l.log.Info("ledger unpaused")
}

// Deposit credits amount to the escrow entry (account, songID, assetID) and
// appends a record to the audit journal. amount must be > 0.
func (l *Ledger) Deposit(payer, account string, songID uint64, assetID string, amount, chainID uint64) (*DepositReceipt, error) {
	if err := l.checkPaused(); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: deposit amount must be > 0", balance.ErrInvalidAmount)
	}
	for _, addr := range []string{payer, account, assetID} {
		if err := split.ValidateAddress(addr); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
		}
	}

	key := balance.Key{Account: account, SongID: songID, AssetID: assetID}
	stripe := l.stripeFor(key)
	stripe.Lock()
	defer stripe.Unlock()

	rec := balance.DepositRecord{
		Payer:     payer,
		Account:   account,
		SongID:    songID,
		AssetID:   assetID,
		Amount:    amount,
		ChainID:   chainID,
		Timestamp: l.clock.Now().Unix(),
	}
	if err := l.journal.Append(rec); err != nil {
		return nil, fmt.Errorf("ledger: append deposit: %w", err)
	}
	if err := l.balances.Credit(key, amount); err != nil {
		return nil, fmt.Errorf("ledger: credit: %w", err)
	}

	current, err := l.balances.Balance(key)
	if err != nil {
		return nil, fmt.Errorf("ledger: read balance: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"account":  account,
		"payer":    payer,
		"song_id":  songID,
		"asset_id": assetID,
		"amount":   amount,
		"chain_id": chainID,
	}).Info("deposit accepted")

	l.sink.Deposited(DepositedEvent{
		Account: account,
		Payer:   payer,
		SongID:  songID,
		AssetID: assetID,
		Amount:  amount,
		ChainID: chainID,
	})

	return &DepositReceipt{Record: rec, Balance: current}, nil
}

// Withdraw drains the full accrued balance of (account, songID, assetID)
// and fans it out across recipients. For a conditional escrow the release
// gate must have approved the song first. The operation is all-or-nothing:
// a gate, balance, or split failure leaves the entry untouched and emits
// nothing. Withdrawn events are emitted after the debit, one per recipient
// in list order.
func (l *Ledger) Withdraw(account string, songID uint64, assetID string, recipients []split.Recipient, conditional bool) (*WithdrawReceipt, error) {
	if err := l.checkPaused(); err != nil {
		return nil, err
	}
	if err := split.ValidateAddress(account); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if err := split.ValidateAddress(assetID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	if conditional {
		if err := l.checkReleaseApproved(songID); err != nil {
			return nil, err
		}
	}

	key := balance.Key{Account: account, SongID: songID, AssetID: assetID}
	stripe := l.stripeFor(key)
	stripe.Lock()
	defer stripe.Unlock()

	total, err := l.balances.Balance(key)
	if err != nil {
		return nil, fmt.Errorf("ledger: read balance: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %s song %d", ErrNothingToWithdraw, account, songID)
	}

	payouts, err := split.Compute(total, recipients)
	if err != nil {
		return nil, err
	}

	// Debit before emitting payout events so a failure mid-notification
	// cannot double-debit on retry.
	if err := l.balances.Debit(key, total); err != nil {
		return nil, fmt.Errorf("ledger: debit: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"account":    account,
		"song_id":    songID,
		"asset_id":   assetID,
		"total":      total,
		"recipients": len(payouts),
	}).Info("withdrawal complete")

	for _, p := range payouts {
		l.sink.Withdrawn(WithdrawnEvent{
			Account:   account,
			SongID:    songID,
			AssetID:   assetID,
			Recipient: p.Address,
			Amount:    p.Amount,
		})
	}

	return &WithdrawReceipt{
		Account: account,
		SongID:  songID,
		AssetID: assetID,
		Total:   total,
		Payouts: payouts,
	}, nil
}

// GetBalance returns the current escrow entry for (account, songID, assetID).
func (l *Ledger) GetBalance(account string, songID uint64, assetID string) (uint64, error) {
	return l.balances.Balance(balance.Key{Account: account, SongID: songID, AssetID: assetID})
}

// Deposits returns the audit trail for (account, songID, assetID) in
// append order.
func (l *Ledger) Deposits(account string, songID uint64, assetID string) ([]balance.DepositRecord, error) {
	return l.journal.List(balance.Key{Account: account, SongID: songID, AssetID: assetID})
}

// checkReleaseApproved maps every unapproved-gate outcome, including a
// missing condition, to ErrReleaseNotApproved.
func (l *Ledger) checkReleaseApproved(songID uint64) error {
	if l.gate == nil {
		return fmt.Errorf("%w: no release gate configured", ErrReleaseNotApproved)
	}
	approved, err := l.gate.IsApproved(songID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReleaseNotApproved, err)
	}
	if !approved {
		return fmt.Errorf("%w: song %d", ErrReleaseNotApproved, songID)
	}
	return nil
}

func (l *Ledger) checkPaused() error {
	l.pauseMu.RLock()
	defer l.pauseMu.RUnlock()
	if l.paused {
		return ErrPaused
	}
	return nil
}

// stripeFor maps an escrow key to its lock stripe.
func (l *Ledger) stripeFor(key balance.Key) *deadlock.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.String()))
	return &l.stripes[h.Sum32()%stripeCount]
}

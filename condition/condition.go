// Package condition gates conditional royalty release.
//
// A Registry holds one release condition per song: a minimum cumulative
// stream count, an unlock time, the oracle trusted to report performance
// data, and whether release additionally needs a manual approval. Signed
// oracle reports accumulate into per-song play and revenue totals; the
// escrow ledger consults IsApproved before allowing a conditional
// withdrawal.
package condition

import (
	"fmt"
	"io"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// compressedKeyLen is the expected length of a compressed secp256k1 public key.
const compressedKeyLen = 33

// Clock supplies the current time, injected so unlock-time checks are
// testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used by default.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Condition is the release rule for one song.
type Condition struct {
	SongID           uint64
	MinStreams       uint64
	UnlockTime       int64  // unix seconds; release allowed at or after
	OraclePubKey     []byte // compressed secp256k1 key of the trusted oracle
	RequiresApproval bool
	Approved         bool // manual approval latch, reset on overwrite

	// Running totals accumulated from accepted reports under this
	// condition version.
	TotalPlays   uint64
	TotalRevenue uint64

	LastReport *Report
}

// Registry holds per-song release conditions and their satisfaction state.
// All methods are safe for concurrent use; report submission serializes
// against condition checks for the same registry.
type Registry struct {
	mu         deadlock.Mutex
	conditions map[uint64]*Condition

	clock   Clock
	verify  VerifyFunc
	maxSkew time.Duration
	log     logrus.FieldLogger
	sink    EventSink
}

// NewRegistry creates an empty registry. A nil clock means wall-clock time.
func NewRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock{}
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return &Registry{
		conditions: make(map[uint64]*Condition),
		clock:      clock,
		verify:     ECDSAVerify,
		log:        quiet,
		sink:       nopSink{},
	}
}

// SetLogger replaces the registry's logger. Discards by default.
func (r *Registry) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		r.log = log
	}
}

// SetEventSink replaces the registry's event sink.
func (r *Registry) SetEventSink(sink EventSink) {
	if sink != nil {
		r.sink = sink
	}
}

// SetVerifier replaces the report signature verifier. The default is
// ECDSAVerify; tests and alternative signature schemes may inject their own.
func (r *Registry) SetVerifier(verify VerifyFunc) {
	if verify != nil {
		r.verify = verify
	}
}

// SetMaxClockSkew bounds how far a report period may extend past the
// registry clock before SubmitReport rejects it. Zero, the default,
// disables the check.
func (r *Registry) SetMaxClockSkew(skew time.Duration) {
	if skew >= 0 {
		r.maxSkew = skew
	}
}

// SetCondition creates or wholesale-overwrites the condition for a song.
// Overwriting resets the approval latch and the accumulated totals: changed
// terms must not inherit an approval granted under the old terms.
// The caller is trusted to have been authorized as the song's controller.
func (r *Registry) SetCondition(songID, minStreams uint64, unlockTime int64, oraclePubKey []byte, requiresApproval bool) error {
	if len(oraclePubKey) != compressedKeyLen {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidOracleKey, compressedKeyLen, len(oraclePubKey))
	}
	if _, err := ec.PublicKeyFromBytes(oraclePubKey); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOracleKey, err)
	}

	key := make([]byte, compressedKeyLen)
	copy(key, oraclePubKey)

	r.mu.Lock()
	r.conditions[songID] = &Condition{
		SongID:           songID,
		MinStreams:       minStreams,
		UnlockTime:       unlockTime,
		OraclePubKey:     key,
		RequiresApproval: requiresApproval,
	}
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"song_id":           songID,
		"min_streams":       minStreams,
		"unlock_time":       unlockTime,
		"requires_approval": requiresApproval,
	}).Info("condition set")

	r.sink.ConditionSet(ConditionSetEvent{
		SongID:           songID,
		MinStreams:       minStreams,
		UnlockTime:       unlockTime,
		OraclePubKey:     key,
		RequiresApproval: requiresApproval,
	})
	return nil
}

// GetCondition returns a copy of the condition for a song, or ErrNotFound
// if none was ever set.
func (r *Registry) GetCondition(songID uint64) (*Condition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cond, ok := r.conditions[songID]
	if !ok {
		return nil, fmt.Errorf("%w: song %d", ErrNotFound, songID)
	}
	out := *cond
	if cond.LastReport != nil {
		report := *cond.LastReport
		out.LastReport = &report
	}
	return &out, nil
}

package condition

// ConditionSetEvent is emitted when a song's release condition is created
// or overwritten.
type ConditionSetEvent struct {
	SongID           uint64
	MinStreams       uint64
	UnlockTime       int64
	OraclePubKey     []byte
	RequiresApproval bool
}

// ReportSubmittedEvent is emitted when a signed performance report is accepted.
type ReportSubmittedEvent struct {
	SongID      uint64
	PeriodStart int64
	PeriodEnd   int64
	Plays       uint64
	Revenue     uint64
}

// ReleaseApprovedEvent is emitted when a release is manually approved.
type ReleaseApprovedEvent struct {
	SongID uint64
}

// EventSink receives condition lifecycle events. Implementations must not
// block; delivery happens synchronously inside registry operations.
type EventSink interface {
	ConditionSet(ConditionSetEvent)
	ReportSubmitted(ReportSubmittedEvent)
	ReleaseApproved(ReleaseApprovedEvent)
}

// nopSink discards all events.
type nopSink struct{}

func (nopSink) ConditionSet(ConditionSetEvent)       {}
func (nopSink) ReportSubmitted(ReportSubmittedEvent) {}
func (nopSink) ReleaseApproved(ReleaseApprovedEvent) {}

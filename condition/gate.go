package condition

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SubmitReport validates a signed performance report and accumulates its
// plays and revenue into the song's running totals. The signature must
// verify against the oracle registered for the song, the report period
// must be non-empty, and when a max clock skew is set the period must not
// end past the registry clock plus that skew. Submission serializes
// against CheckCondition and
// ApproveRelease so a concurrent check never observes a half-applied
// report.
func (r *Registry) SubmitReport(report *Report) error {
	if report == nil {
		return fmt.Errorf("%w: report", ErrNilParam)
	}
	if report.PeriodStart >= report.PeriodEnd {
		return fmt.Errorf("%w: start %d >= end %d", ErrInvalidPeriod, report.PeriodStart, report.PeriodEnd)
	}
	if r.maxSkew > 0 {
		horizon := r.clock.Now().Add(r.maxSkew).Unix()
		if report.PeriodEnd > horizon {
			return fmt.Errorf("%w: end %d past clock horizon %d", ErrInvalidPeriod, report.PeriodEnd, horizon)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cond, ok := r.conditions[report.SongID]
	if !ok {
		return fmt.Errorf("%w: song %d", ErrNotFound, report.SongID)
	}

	if err := r.verify(ReportDigest(report), report.Signature, cond.OraclePubKey); err != nil {
		return err
	}

	stored := *report
	cond.LastReport = &stored
	cond.TotalPlays += report.Plays
	cond.TotalRevenue += report.Revenue

	r.log.WithFields(logrus.Fields{
		"song_id":     report.SongID,
		"plays":       report.Plays,
		"revenue":     report.Revenue,
		"total_plays": cond.TotalPlays,
	}).Info("report accepted")

	r.sink.ReportSubmitted(ReportSubmittedEvent{
		SongID:      report.SongID,
		PeriodStart: report.PeriodStart,
		PeriodEnd:   report.PeriodEnd,
		Plays:       report.Plays,
		Revenue:     report.Revenue,
	})
	return nil
}

// CheckCondition reports whether the song's release thresholds currently
// hold: cumulative plays have reached MinStreams and the unlock time has
// passed. It never mutates state.
func (r *Registry) CheckCondition(songID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkLocked(songID)
}

// checkLocked evaluates the release thresholds. Caller holds r.mu.
func (r *Registry) checkLocked(songID uint64) (bool, error) {
	cond, ok := r.conditions[songID]
	if !ok {
		return false, fmt.Errorf("%w: song %d", ErrNotFound, songID)
	}
	if cond.TotalPlays < cond.MinStreams {
		return false, nil
	}
	return r.clock.Now().Unix() >= cond.UnlockTime, nil
}

// ApproveRelease sets the manual approval latch for a song. The condition
// must require manual approval and must currently hold. The latch is
// one-way per condition version; SetCondition resets it.
// The caller is trusted to have been authorized as the song's controller.
func (r *Registry) ApproveRelease(songID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cond, ok := r.conditions[songID]
	if !ok {
		return fmt.Errorf("%w: song %d", ErrNotFound, songID)
	}
	if !cond.RequiresApproval {
		return fmt.Errorf("%w: song %d releases automatically", ErrApprovalNotRequired, songID)
	}

	met, err := r.checkLocked(songID)
	if err != nil {
		return err
	}
	if !met {
		return fmt.Errorf("%w: song %d", ErrConditionNotMet, songID)
	}

	cond.Approved = true
	r.log.WithField("song_id", songID).Info("release approved")
	r.sink.ReleaseApproved(ReleaseApprovedEvent{SongID: songID})
	return nil
}

// IsApproved is the single predicate the escrow ledger consults before a
// conditional withdrawal: true iff the condition holds and releases
// automatically, or it has been manually approved.
func (r *Registry) IsApproved(songID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cond, ok := r.conditions[songID]
	if !ok {
		return false, fmt.Errorf("%w: song %d", ErrNotFound, songID)
	}
	if cond.Approved {
		return true, nil
	}
	if cond.RequiresApproval {
		return false, nil
	}
	met, err := r.checkLocked(songID)
	if err != nil {
		return false, err
	}
	return met, nil
}

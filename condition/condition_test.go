package condition

import (
	"testing"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns a fixed time, advanced explicitly by tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newOracle(t *testing.T) (*ec.PrivateKey, []byte) {
	t.Helper()
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	return priv, priv.PubKey().Compressed()
}

func signedReport(t *testing.T, priv *ec.PrivateKey, songID, plays uint64) *Report {
	t.Helper()
	r := &Report{
		SongID:      songID,
		PeriodStart: 1700000000,
		PeriodEnd:   1700604800,
		Plays:       plays,
		Revenue:     plays * 3,
	}
	require.NoError(t, SignReport(r, priv))
	return r
}

func TestSetCondition_GetCondition(t *testing.T) {
	reg := NewRegistry(&fakeClock{now: time.Unix(1700000000, 0)})
	_, pub := newOracle(t)

	require.NoError(t, reg.SetCondition(1, 1000, 1800000000, pub, true))

	cond, err := reg.GetCondition(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cond.MinStreams)
	assert.Equal(t, int64(1800000000), cond.UnlockTime)
	assert.Equal(t, pub, cond.OraclePubKey)
	assert.True(t, cond.RequiresApproval)
	assert.False(t, cond.Approved)
	assert.Zero(t, cond.TotalPlays)
}

func TestGetCondition_NotFound(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.GetCondition(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetCondition_BadOracleKey(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.SetCondition(1, 0, 0, []byte{0x02, 0x03}, false)
	assert.ErrorIs(t, err, ErrInvalidOracleKey)

	// Right length but not a curve point.
	junk := make([]byte, 33)
	junk[0] = 0x05
	err = reg.SetCondition(1, 0, 0, junk, false)
	assert.ErrorIs(t, err, ErrInvalidOracleKey)
}

func TestSubmitReport_AccumulatesPlays(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1750000000, 0)}
	reg := NewRegistry(clock)
	priv, pub := newOracle(t)

	require.NoError(t, reg.SetCondition(1, 1000, 1700000000, pub, false))

	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 500)))
	met, err := reg.CheckCondition(1)
	require.NoError(t, err)
	assert.False(t, met, "500 plays below minStreams 1000")

	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 700)))
	met, err = reg.CheckCondition(1)
	require.NoError(t, err)
	assert.True(t, met, "cumulative 1200 plays reaches minStreams")

	cond, err := reg.GetCondition(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1200), cond.TotalPlays)
	assert.Equal(t, uint64(1200*3), cond.TotalRevenue)
	require.NotNil(t, cond.LastReport)
	assert.Equal(t, uint64(700), cond.LastReport.Plays)
}

func TestSubmitReport_InvalidPeriod(t *testing.T) {
	reg := NewRegistry(nil)
	priv, pub := newOracle(t)
	require.NoError(t, reg.SetCondition(1, 0, 0, pub, false))

	r := signedReport(t, priv, 1, 10)
	r.PeriodStart, r.PeriodEnd = r.PeriodEnd, r.PeriodStart
	assert.ErrorIs(t, reg.SubmitReport(r), ErrInvalidPeriod)

	r2 := signedReport(t, priv, 1, 10)
	r2.PeriodEnd = r2.PeriodStart
	assert.ErrorIs(t, reg.SubmitReport(r2), ErrInvalidPeriod)
}

func TestSubmitReport_PeriodEndBeyondClockSkew(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700600000, 0)}
	reg := NewRegistry(clock)
	reg.SetMaxClockSkew(time.Hour)
	priv, pub := newOracle(t)
	require.NoError(t, reg.SetCondition(1, 0, 0, pub, false))

	// The report period ends 4800s past the clock, beyond the 1h horizon.
	err := reg.SubmitReport(signedReport(t, priv, 1, 10))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	cond, err := reg.GetCondition(1)
	require.NoError(t, err)
	assert.Zero(t, cond.TotalPlays, "rejected report must not accumulate")

	// Accepted once the clock catches up.
	clock.now = time.Unix(1700604000, 0)
	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 10)))
}

func TestSubmitReport_NoCondition(t *testing.T) {
	reg := NewRegistry(nil)
	priv, _ := newOracle(t)
	assert.ErrorIs(t, reg.SubmitReport(signedReport(t, priv, 9, 10)), ErrNotFound)
}

func TestSubmitReport_WrongOracle(t *testing.T) {
	reg := NewRegistry(nil)
	_, pub := newOracle(t)
	imposter, _ := newOracle(t)
	require.NoError(t, reg.SetCondition(1, 0, 0, pub, false))

	err := reg.SubmitReport(signedReport(t, imposter, 1, 10))
	assert.ErrorIs(t, err, ErrUnauthorizedOracle)
}

func TestSubmitReport_MalformedSignature(t *testing.T) {
	reg := NewRegistry(nil)
	priv, pub := newOracle(t)
	require.NoError(t, reg.SetCondition(1, 0, 0, pub, false))

	r := signedReport(t, priv, 1, 10)
	r.Signature = []byte{0xde, 0xad}
	assert.ErrorIs(t, reg.SubmitReport(r), ErrInvalidSignature)
}

func TestSubmitReport_TamperedBody(t *testing.T) {
	reg := NewRegistry(nil)
	priv, pub := newOracle(t)
	require.NoError(t, reg.SetCondition(1, 0, 0, pub, false))

	r := signedReport(t, priv, 1, 10)
	r.Plays = 1000000 // signature no longer covers the body
	assert.ErrorIs(t, reg.SubmitReport(r), ErrUnauthorizedOracle)
}

func TestCheckCondition_UnlockTime(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	reg := NewRegistry(clock)
	_, pub := newOracle(t)

	// No stream threshold, only a time lock.
	require.NoError(t, reg.SetCondition(1, 0, 1700000100, pub, false))

	met, err := reg.CheckCondition(1)
	require.NoError(t, err)
	assert.False(t, met, "before unlock time")

	clock.now = time.Unix(1700000100, 0)
	met, err = reg.CheckCondition(1)
	require.NoError(t, err)
	assert.True(t, met, "at unlock time")
}

func TestApproveRelease(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1750000000, 0)}
	reg := NewRegistry(clock)
	priv, pub := newOracle(t)

	require.NoError(t, reg.SetCondition(1, 100, 1700000000, pub, true))

	// Condition not met yet.
	assert.ErrorIs(t, reg.ApproveRelease(1), ErrConditionNotMet)

	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 150)))
	require.NoError(t, reg.ApproveRelease(1))

	approved, err := reg.IsApproved(1)
	require.NoError(t, err)
	assert.True(t, approved)
}

func TestApproveRelease_NotRequired(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1750000000, 0)}
	reg := NewRegistry(clock)
	_, pub := newOracle(t)

	require.NoError(t, reg.SetCondition(1, 0, 0, pub, false))
	assert.ErrorIs(t, reg.ApproveRelease(1), ErrApprovalNotRequired)
}

func TestApproveRelease_NotFound(t *testing.T) {
	reg := NewRegistry(nil)
	assert.ErrorIs(t, reg.ApproveRelease(5), ErrNotFound)
}

func TestSetCondition_OverwriteResetsApproval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1750000000, 0)}
	reg := NewRegistry(clock)
	priv, pub := newOracle(t)

	require.NoError(t, reg.SetCondition(1, 100, 1700000000, pub, true))
	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 150)))
	require.NoError(t, reg.ApproveRelease(1))

	// Overwriting the terms must not grandfather the old approval,
	// and totals start over under the new terms.
	require.NoError(t, reg.SetCondition(1, 200, 1700000000, pub, true))

	cond, err := reg.GetCondition(1)
	require.NoError(t, err)
	assert.False(t, cond.Approved)
	assert.Zero(t, cond.TotalPlays)

	approved, err := reg.IsApproved(1)
	require.NoError(t, err)
	assert.False(t, approved)
}

func TestIsApproved_AutomaticRelease(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1750000000, 0)}
	reg := NewRegistry(clock)
	priv, pub := newOracle(t)

	require.NoError(t, reg.SetCondition(1, 1000, 1700000000, pub, false))

	approved, err := reg.IsApproved(1)
	require.NoError(t, err)
	assert.False(t, approved, "below stream threshold")

	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 1200)))

	// Thresholds met and no manual approval required: releases without
	// an ApproveRelease call.
	approved, err = reg.IsApproved(1)
	require.NoError(t, err)
	assert.True(t, approved)
}

func TestIsApproved_ManualGateBlocksUntilApproved(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1750000000, 0)}
	reg := NewRegistry(clock)
	priv, pub := newOracle(t)

	require.NoError(t, reg.SetCondition(1, 100, 1700000000, pub, true))
	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 150)))

	approved, err := reg.IsApproved(1)
	require.NoError(t, err)
	assert.False(t, approved, "condition met but approval pending")

	require.NoError(t, reg.ApproveRelease(1))
	approved, err = reg.IsApproved(1)
	require.NoError(t, err)
	assert.True(t, approved)
}

func TestIsApproved_NotFound(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.IsApproved(77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCondition_ReturnsCopy(t *testing.T) {
	reg := NewRegistry(nil)
	priv, pub := newOracle(t)
	require.NoError(t, reg.SetCondition(1, 10, 0, pub, false))
	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 5)))

	cond, err := reg.GetCondition(1)
	require.NoError(t, err)
	cond.TotalPlays = 999999
	cond.LastReport.Plays = 999999

	fresh, err := reg.GetCondition(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), fresh.TotalPlays)
	assert.Equal(t, uint64(5), fresh.LastReport.Plays)
}

func TestReportDigest_Deterministic(t *testing.T) {
	r := &Report{SongID: 1, PeriodStart: 100, PeriodEnd: 200, Plays: 3, Revenue: 9}
	assert.Equal(t, ReportDigest(r), ReportDigest(r))
	assert.Len(t, SerializeReportBody(r), reportBodySize)

	r2 := *r
	r2.Plays = 4
	assert.NotEqual(t, ReportDigest(r), ReportDigest(&r2))
}

func TestEventSink_ReceivesEvents(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1750000000, 0)}
	reg := NewRegistry(clock)
	priv, pub := newOracle(t)

	sink := &recordingSink{}
	reg.SetEventSink(sink)

	require.NoError(t, reg.SetCondition(1, 10, 0, pub, true))
	require.NoError(t, reg.SubmitReport(signedReport(t, priv, 1, 20)))
	require.NoError(t, reg.ApproveRelease(1))

	require.Len(t, sink.set, 1)
	assert.Equal(t, uint64(10), sink.set[0].MinStreams)
	require.Len(t, sink.reports, 1)
	assert.Equal(t, uint64(20), sink.reports[0].Plays)
	require.Len(t, sink.approvals, 1)
	assert.Equal(t, uint64(1), sink.approvals[0].SongID)
}

type recordingSink struct {
	set       []ConditionSetEvent
	reports   []ReportSubmittedEvent
	approvals []ReleaseApprovedEvent
}

func (s *recordingSink) ConditionSet(e ConditionSetEvent)       { s.set = append(s.set, e) }
func (s *recordingSink) ReportSubmitted(e ReportSubmittedEvent) { s.reports = append(s.reports, e) }
func (s *recordingSink) ReleaseApproved(e ReleaseApprovedEvent) { s.approvals = append(s.approvals, e) }

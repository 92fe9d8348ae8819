package condition

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// reportBodySize is the length of a serialized report body:
// song_id(8) + period_start(8) + period_end(8) + plays(8) + revenue(8).
const reportBodySize = 40

// Report is a signed oracle statement of performance data for a song over
// one reporting period.
type Report struct {
	SongID      uint64
	PeriodStart int64 // unix seconds, inclusive
	PeriodEnd   int64 // unix seconds, exclusive
	Plays       uint64
	Revenue     uint64 // smallest unit
	Signature   []byte // DER ECDSA signature over ReportDigest
}

// SerializeReportBody encodes the signed fields of a report to a canonical
// binary form. Signature is not included.
func SerializeReportBody(r *Report) []byte {
	buf := make([]byte, reportBodySize)
	binary.BigEndian.PutUint64(buf[0:8], r.SongID)
	binary.BigEndian.PutUint64(buf[8:16], uint64(r.PeriodStart))
	binary.BigEndian.PutUint64(buf[16:24], uint64(r.PeriodEnd))
	binary.BigEndian.PutUint64(buf[24:32], r.Plays)
	binary.BigEndian.PutUint64(buf[32:40], r.Revenue)
	return buf
}

// ReportDigest returns the SHA256 digest an oracle signs.
func ReportDigest(r *Report) []byte {
	digest := sha256.Sum256(SerializeReportBody(r))
	return digest[:]
}

// SignReport signs the report body with the oracle's private key and
// attaches the DER signature. Used by oracle tooling and tests.
func SignReport(r *Report, priv *ec.PrivateKey) error {
	if r == nil {
		return fmt.Errorf("%w: report", ErrNilParam)
	}
	if priv == nil {
		return fmt.Errorf("%w: private key", ErrNilParam)
	}
	sig, err := priv.Sign(ReportDigest(r))
	if err != nil {
		return fmt.Errorf("condition: sign report: %w", err)
	}
	r.Signature = sig.Serialize()
	return nil
}

// VerifyFunc checks a DER signature over digest against a compressed
// secp256k1 public key. The registry uses ECDSAVerify unless a different
// verifier is injected.
type VerifyFunc func(digest, sig, pubKey []byte) error

// ECDSAVerify is the default report signature verifier.
// Fails with ErrInvalidSignature on a malformed signature and
// ErrUnauthorizedOracle when the signature does not verify against pubKey.
func ECDSAVerify(digest, sigBytes, pubKey []byte) error {
	pub, err := ec.PublicKeyFromBytes(pubKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOracleKey, err)
	}
	sig, err := ec.ParseDERSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !sig.Verify(digest, pub) {
		return ErrUnauthorizedOracle
	}
	return nil
}

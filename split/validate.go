package split

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// addressHexLen is the number of hex characters in a 20-byte address.
const addressHexLen = 40

// ValidateRecipients checks the split contract for a recipient list:
// at least one recipient, no duplicate addresses, every address well-formed,
// no share above SharesTotal, and shares summing to exactly SharesTotal.
// Returns ErrInvalidSplit
// describing the first violation found.
func ValidateRecipients(recipients []Recipient) error {
	if len(recipients) == 0 {
		return fmt.Errorf("%w: empty recipient list", ErrInvalidSplit)
	}

	seen := make(map[string]bool, len(recipients))
	var sum uint64
	for i, r := range recipients {
		if err := ValidateAddress(r.Address); err != nil {
			return fmt.Errorf("%w: recipient %d: %w", ErrInvalidSplit, i, err)
		}
		key := strings.ToLower(r.Address)
		if seen[key] {
			return fmt.Errorf("%w: duplicate recipient %s", ErrInvalidSplit, r.Address)
		}
		seen[key] = true
		if r.Share > SharesTotal {
			return fmt.Errorf("%w: recipient %d share %d exceeds %d", ErrInvalidSplit, i, r.Share, SharesTotal)
		}
		sum += r.Share
	}

	if sum != SharesTotal {
		return fmt.Errorf("%w: shares sum to %d, need %d", ErrInvalidSplit, sum, SharesTotal)
	}
	return nil
}

// ValidateAddress checks that addr is a well-formed 0x-prefixed 20-byte hex
// address. Mixed-case addresses must additionally carry a valid EIP-55
// checksum; all-lowercase and all-uppercase forms are accepted as-is.
func ValidateAddress(addr string) error {
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return fmt.Errorf("%w: missing 0x prefix: %q", ErrInvalidAddress, addr)
	}
	hexPart := addr[2:]
	if len(hexPart) != addressHexLen {
		return fmt.Errorf("%w: want %d hex chars, got %d", ErrInvalidAddress, addressHexLen, len(hexPart))
	}

	hasUpper, hasLower := false, false
	for _, c := range hexPart {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
			hasLower = true
		case c >= 'A' && c <= 'F':
			hasUpper = true
		default:
			return fmt.Errorf("%w: non-hex character %q", ErrInvalidAddress, c)
		}
	}

	// Mixed case implies an EIP-55 checksummed address.
	if hasUpper && hasLower {
		if checksumAddress(hexPart) != hexPart {
			return fmt.Errorf("%w: bad EIP-55 checksum: %s", ErrInvalidAddress, addr)
		}
	}
	return nil
}

// checksumAddress returns the EIP-55 checksummed form of a 40-char hex
// address (without the 0x prefix): each alphabetic character is uppercased
// iff the corresponding nibble of Keccak-256(lowercase hex) is >= 8.
func checksumAddress(hexPart string) string {
	lower := strings.ToLower(hexPart)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	hash := h.Sum(nil)

	out := []byte(lower)
	for i := range out {
		if out[i] < 'a' || out[i] > 'f' {
			continue
		}
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] -= 'a' - 'A'
		}
	}
	return string(out)
}

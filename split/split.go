// Package split computes percentage-based royalty payouts.
//
// A withdrawal fans out to an ordered recipient list where each recipient
// holds an integer percentage share. Shares must sum to exactly 100 and the
// computed payouts always sum to exactly the withdrawn total: each recipient
// receives floor(total*share/100) and the last recipient absorbs the
// remainder, so repeated withdrawals never leak or mint dust.
package split

// SharesTotal is the required sum of recipient percentage shares.
const SharesTotal = 100

// Recipient is one entry in a withdrawal split.
type Recipient struct {
	Address string // hex chain address (0x-prefixed, 20 bytes)
	Share   uint64 // percentage share, 0..100
}

// Payout is the computed amount owed to a single recipient.
type Payout struct {
	Address string
	Amount  uint64
}

// Compute turns a total amount and a recipient list into exact payouts.
// The last recipient receives the remainder after flooring, so the payout
// amounts sum to total exactly. The recipient list is validated first; any
// violation fails with ErrInvalidSplit.
func Compute(total uint64, recipients []Recipient) ([]Payout, error) {
	if err := ValidateRecipients(recipients); err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNothingToDistribute
	}

	payouts := make([]Payout, len(recipients))
	var distributed uint64

	for i, r := range recipients {
		payouts[i].Address = r.Address
		if i == len(recipients)-1 {
			// Last recipient gets remainder
			payouts[i].Amount = total - distributed
		} else {
			// floor(total*share/100) computed without overflowing uint64:
			// split total into 100q+rem, then q*share <= MaxUint64 since
			// share <= 100, and rem*share < 10000.
			q, rem := total/SharesTotal, total%SharesTotal
			amount := q*r.Share + rem*r.Share/SharesTotal
			payouts[i].Amount = amount
			distributed += amount
		}
	}

	return payouts, nil
}

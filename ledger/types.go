/*
Package ledger provides the core in-memory ledger engine.

PURPOSE:
  This package contains the account store, the append-only transaction
  log, the deferred cashback scheduler, and the balance replay algorithm.
  Balances are always reconstructible by folding the log; the cached
  balance on an account is a projection, never an independent source of
  truth.

KEY CONCEPTS IN THIS FILE (types.go):
  - Time: A caller-supplied logical millisecond timestamp
  - Transaction: An immutable ledger entry recording balance changes
  - Provenance: The merge tag that gates historical visibility
  - PaymentRef: The globally unique identifier of a payment

DESIGN PRINCIPLES:
  1. Immutability: Transactions are appended, never rewritten (the one
     exception is the cashback deposited flag, which flips exactly once)
  2. Logical time: All ordering is by caller-supplied timestamps, never
     wall-clock time
  3. Replayability: Any past balance is recomputed from the log

SEE ALSO:
  - engine.go: Public operations
  - account.go: Account state and era archive
  - cashback.go: Deferred cashback scheduling
  - replay.go: Point-in-time balance reconstruction
*/
package ledger

// =============================================================================
// LOGICAL TIME
// =============================================================================

// Time is a logical timestamp in milliseconds, supplied by the caller
// with every operation. It is monotonically non-decreasing across calls;
// it is not wall-clock time.
type Time int64

// Day is one day in logical time units. Cashback is credited exactly one
// Day after the payment that earned it.
const Day Time = 24 * 60 * 60 * 1000

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AccountID string

// PaymentRef identifies a payment across the whole system. Refs have the
// form "payment<ordinal>" where the ordinal counts successful payments
// system-wide, starting at 1.
type PaymentRef string

// =============================================================================
// TRANSACTION - Atomic change to an account balance
// =============================================================================

type Kind string

const (
	KindCreated     Kind = "created"         // Account creation marker, amount 0
	KindDeposited   Kind = "deposited"       // Money added
	KindTransferOut Kind = "transferred_out" // Money sent to another account
	KindTransferIn  Kind = "transferred_in"  // Money received from another account
	KindPaid        Kind = "paid"            // Money withdrawn via pay
	KindCashback    Kind = "cashback"        // Deferred refund for a payment
)

// Provenance tags a transaction that was copied into a survivor account
// during a merge. A tagged record contributes to a balance query only for
// asOf at or after MergedAt; before that the event belongs exclusively to
// the donor's archived history.
type Provenance struct {
	From     AccountID
	MergedAt Time
}

// Transaction is an immutable ledger entry. Timestamp is the logical time
// the economic event occurred, which for cashback lies in the future
// relative to when the record was appended.
type Transaction struct {
	ID        string
	Timestamp Time
	Kind      Kind
	Amount    int64

	// PaymentRef links a Paid record to its scheduled Cashback record.
	// Set only on KindPaid and KindCashback.
	PaymentRef PaymentRef

	// Deposited is meaningful only on KindCashback: false until the
	// scheduler credits the refund, true thereafter. Balance accounting
	// and payment status key off this flag, not off the record existing.
	Deposited bool

	Provenance *Provenance
}

// Credits reports whether the record adds to a balance. Cashback credits
// only once deposited; an undeposited cashback record is a promise, not
// money.
func (t Transaction) Credits() bool {
	switch t.Kind {
	case KindDeposited, KindTransferIn:
		return true
	case KindCashback:
		return t.Deposited
	}
	return false
}

// Debits reports whether the record subtracts from a balance.
func (t Transaction) Debits() bool {
	return t.Kind == KindTransferOut || t.Kind == KindPaid
}

// Outgoing reports whether the record counts toward spender rankings.
// Cashback is excluded by definition.
func (t Transaction) Outgoing() bool {
	return t.Kind == KindTransferOut || t.Kind == KindPaid
}

// =============================================================================
// PAYMENT STATUS
// =============================================================================

type PaymentStatus string

const (
	StatusInProgress       PaymentStatus = "IN_PROGRESS"
	StatusCashbackReceived PaymentStatus = "CASHBACK_RECEIVED"
)

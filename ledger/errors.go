/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All failure modes of the engine in one place. Every failure here is an
  expected, caller-correctable condition (missing account, insufficient
  funds, self-transfer) reported through return values - the engine never
  panics on business rules.

USAGE:
  Callers discriminate with errors.Is:

    if errors.Is(err, ledger.ErrAccountNotFound) {
        // 404 at the API boundary
    }

SEE ALSO:
  - engine.go: Operations returning these errors
  - api/handlers.go: HTTP status mapping
*/
package ledger

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when an account id does not denote a
	// currently-active account, or when a historical query targets a time
	// at which the account did not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a transfer or payment exceeds
	// the source balance. No state changes.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccount is returned when a transfer names the same account as
	// both source and target.
	ErrSameAccount = errors.New("source and target are the same account")

	// ErrPaymentNotFound is returned when a payment reference does not
	// belong to the queried account, directly or via an inherited merge
	// history.
	ErrPaymentNotFound = errors.New("payment not found")
)

// IsNotFound reports whether the error indicates a missing account or
// payment reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrPaymentNotFound)
}

// IsRejected reports whether the error is an expected business rejection
// rather than a lookup failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrSameAccount)
}

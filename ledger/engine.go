/*
engine.go - Public operations of the ledger engine

PURPOSE:
  The Engine owns all process-wide ledger state: the account store, the
  cashback scheduler, and the global payment ordinal. Multiple engines
  can coexist; nothing here is package-level mutable state.

CONTROL FLOW:
  Every public operation first drains the scheduler up to the supplied
  timestamp, applying any cashback now due, then performs its own state
  mutation. Rejections leave all state exactly as before the call.

ORDERING CONTRACT:
  Callers present operations in non-decreasing logical-timestamp order.
  The engine tracks a high-water mark of processed time; a call with an
  earlier timestamp drains nothing (the drain is idempotent) and its
  records simply land out of log order. It is the caller's job not to
  travel backwards.

ERROR HANDLING:
  All failures are expected conditions reported through return values -
  sentinel errors from errors.go, or a plain false for the two boolean
  operations. No operation panics on business rules.

SEE ALSO:
  - types.go: Transaction model
  - cashback.go: Scheduler internals
  - replay.go: BalanceAt's fold
  - spenders.go: TopSpenders ranking
*/
package ledger

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// LEDGER CONTRACT
// =============================================================================

// Ledger is the operation contract of the engine. A CLI, test harness,
// or HTTP façade may expose it verbatim.
type Ledger interface {
	// CreateAccount creates a fresh account with balance 0. Returns false
	// if id denotes a currently-active account. An id that was merged away
	// may be re-created; the new account starts a disjoint history.
	CreateAccount(now Time, id AccountID) bool

	// Deposit adds amount to the account and returns the new balance.
	Deposit(now Time, id AccountID, amount int64) (int64, error)

	// Transfer moves amount from src to dst and returns src's new balance.
	// Both legs happen atomically or neither does.
	Transfer(now Time, src, dst AccountID, amount int64) (int64, error)

	// TopSpenders returns the n highest-spending active accounts formatted
	// as "id(total)".
	TopSpenders(now Time, n int) []string

	// Pay withdraws amount and schedules a cashback refund one day later.
	// Returns the globally unique payment reference.
	Pay(now Time, id AccountID, amount int64) (PaymentRef, error)

	// PaymentStatus reports whether a payment's cashback has been credited.
	PaymentStatus(now Time, id AccountID, ref PaymentRef) (PaymentStatus, error)

	// MergeAccounts merges id2 (the donor) into id1 (the survivor).
	MergeAccounts(now Time, id1, id2 AccountID) bool

	// BalanceAt reconstructs the account's balance as of a past logical
	// timestamp, including history inherited through merges.
	BalanceAt(now Time, id AccountID, asOf Time) (int64, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the single concrete implementation of Ledger. All public
// operations serialize behind one mutex, preserving the drain-before-
// mutate ordering guarantee even when callers use real threads.
type Engine struct {
	mu        sync.Mutex
	accounts  *accounts
	scheduler *scheduler
	cashback  CashbackPolicy

	// payments counts successful Pay calls system-wide; it is the ordinal
	// baked into payment references.
	payments int64

	// clock is the high-water mark of processed logical time.
	clock Time
}

var _ Ledger = (*Engine)(nil)

// New creates an empty engine with the default 2%/one-day cashback policy.
func New() *Engine {
	return NewWithPolicy(DefaultCashbackPolicy())
}

// NewWithPolicy creates an empty engine with a custom cashback policy.
func NewWithPolicy(policy CashbackPolicy) *Engine {
	return &Engine{
		accounts:  newAccounts(),
		scheduler: newScheduler(),
		cashback:  policy,
	}
}

// advance drains all due cashback and moves the engine's clock forward.
// Must be called, with the lock held, before any operation's own logic.
func (e *Engine) advance(now Time) {
	if now > e.clock {
		e.clock = now
	}
	e.scheduler.drain(now, e.applyCashback)
}

// applyCashback credits one due cashback event. The target account is
// resolved through merge redirects so the refund follows the balance. An
// event whose account no longer exists in any form is dropped silently.
func (e *Engine) applyCashback(due Time, ev cashbackEvent) {
	acct := e.accounts.resolve(ev.Account)
	if acct == nil || !acct.Active() {
		return
	}
	acct.Balance += ev.Amount
	if tx := acct.findCashback(ev.Ref); tx != nil && !tx.Deposited {
		tx.Deposited = true
		return
	}
	// The pending record was not carried over (it should always be); keep
	// the books consistent by appending an already-deposited record.
	acct.append(Transaction{
		ID:         uuid.NewString(),
		Timestamp:  due,
		Kind:       KindCashback,
		Amount:     ev.Amount,
		PaymentRef: ev.Ref,
		Deposited:  true,
	})
}

// =============================================================================
// OPERATIONS
// =============================================================================

func (e *Engine) CreateAccount(now Time, id AccountID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	if _, exists := e.accounts.get(id); exists {
		return false
	}
	a := e.accounts.create(id, now)
	a.append(Transaction{
		ID:        uuid.NewString(),
		Timestamp: now,
		Kind:      KindCreated,
	})
	return true
}

func (e *Engine) Deposit(now Time, id AccountID, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	a, ok := e.accounts.get(id)
	if !ok {
		return 0, ErrAccountNotFound
	}
	a.append(Transaction{
		ID:        uuid.NewString(),
		Timestamp: now,
		Kind:      KindDeposited,
		Amount:    amount,
	})
	a.Balance += amount
	return a.Balance, nil
}

func (e *Engine) Transfer(now Time, src, dst AccountID, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	if src == dst {
		return 0, ErrSameAccount
	}
	source, ok := e.accounts.get(src)
	if !ok {
		return 0, ErrAccountNotFound
	}
	target, ok := e.accounts.get(dst)
	if !ok {
		return 0, ErrAccountNotFound
	}
	if source.Balance < amount {
		return 0, ErrInsufficientFunds
	}

	source.append(Transaction{
		ID:        uuid.NewString(),
		Timestamp: now,
		Kind:      KindTransferOut,
		Amount:    amount,
	})
	source.Balance -= amount

	target.append(Transaction{
		ID:        uuid.NewString(),
		Timestamp: now,
		Kind:      KindTransferIn,
		Amount:    amount,
	})
	target.Balance += amount

	return source.Balance, nil
}

func (e *Engine) Pay(now Time, id AccountID, amount int64) (PaymentRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	a, ok := e.accounts.get(id)
	if !ok {
		return "", ErrAccountNotFound
	}
	if a.Balance < amount {
		return "", ErrInsufficientFunds
	}

	e.payments++
	ref := PaymentRef(fmt.Sprintf("payment%d", e.payments))

	a.Balance -= amount
	a.append(Transaction{
		ID:         uuid.NewString(),
		Timestamp:  now,
		Kind:       KindPaid,
		Amount:     amount,
		PaymentRef: ref,
	})

	refund := e.cashback.Amount(amount)
	due := now + e.cashback.Delay
	a.append(Transaction{
		ID:         uuid.NewString(),
		Timestamp:  due,
		Kind:       KindCashback,
		Amount:     refund,
		PaymentRef: ref,
	})
	e.scheduler.schedule(due, cashbackEvent{Ref: ref, Account: id, Amount: refund})

	return ref, nil
}

func (e *Engine) PaymentStatus(now Time, id AccountID, ref PaymentRef) (PaymentStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	a, ok := e.accounts.get(id)
	if !ok {
		return "", ErrAccountNotFound
	}
	if a.findPaid(ref) == nil {
		return "", ErrPaymentNotFound
	}
	if cb := a.findCashback(ref); cb != nil && cb.Deposited {
		return StatusCashbackReceived, nil
	}
	return StatusInProgress, nil
}

func (e *Engine) MergeAccounts(now Time, id1, id2 AccountID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	if id1 == id2 {
		return false
	}
	survivor, ok := e.accounts.get(id1)
	if !ok {
		return false
	}
	donor, ok := e.accounts.get(id2)
	if !ok {
		return false
	}

	survivor.Balance += donor.Balance
	if donor.CreatedAt < survivor.CreatedAt {
		survivor.CreatedAt = donor.CreatedAt
	}

	// Transplant the donor's history. Each copy is tagged so historical
	// queries before the merge keep seeing it only through the donor.
	for _, tx := range donor.Transactions {
		cp := tx
		cp.Provenance = &Provenance{From: id2, MergedAt: now}
		survivor.append(cp)
	}

	donor.MergedInto = id1
	donor.MergedAt = now
	e.accounts.retire(donor)
	e.scheduler.redirect(id2, id1)
	return true
}

func (e *Engine) BalanceAt(now Time, id AccountID, asOf Time) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	if !e.accounts.known(id) {
		return 0, ErrAccountNotFound
	}
	era := e.accounts.eraAt(id, asOf)
	if era == nil {
		return 0, ErrAccountNotFound
	}
	return foldBalance(era.Transactions, asOf), nil
}

// =============================================================================
// READ-ONLY VIEWS (for the API surface)
// =============================================================================

// Snapshot is a point-in-time view of an active account.
type Snapshot struct {
	ID        AccountID
	Balance   int64
	CreatedAt Time
}

// Account returns the current state of an active account.
func (e *Engine) Account(now Time, id AccountID) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	a, ok := e.accounts.get(id)
	if !ok {
		return Snapshot{}, ErrAccountNotFound
	}
	return Snapshot{ID: a.ID, Balance: a.Balance, CreatedAt: a.CreatedAt}, nil
}

// Transactions returns a copy of an active account's log, in log order.
func (e *Engine) Transactions(now Time, id AccountID) ([]Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	a, ok := e.accounts.get(id)
	if !ok {
		return nil, ErrAccountNotFound
	}
	out := make([]Transaction, len(a.Transactions))
	copy(out, a.Transactions)
	return out, nil
}

/*
account.go - Account state and the era archive

PURPOSE:
  Owns the mapping from account id to account state. An account is never
  physically deleted: merging moves the donor into an archive of "eras"
  keyed by id, so the same id can be re-created with a disjoint history
  while every old era stays reachable for historical balance queries.

ERA RESOLUTION:
  For a point-in-time query the id alone is ambiguous - "B" may denote
  the active account created at t=50 or the archived account that lived
  from t=3 until it was merged away at t=9. eraAt picks the era whose
  lifetime contains the query time.

SEE ALSO:
  - engine.go: Mutating operations
  - replay.go: Folding an era's log into a balance
*/
package ledger

// =============================================================================
// ACCOUNT
// =============================================================================

// Account holds one era of an account id: its cached balance, creation
// time, append-only transaction log, and merge status.
type Account struct {
	ID           AccountID
	Balance      int64
	CreatedAt    Time
	Transactions []Transaction

	// MergedInto and MergedAt are set once, when this era is merged away.
	// A merged-away era accepts no new mutations but its history remains
	// queryable for timestamps before MergedAt.
	MergedInto AccountID
	MergedAt   Time
}

// Active reports whether this era still accepts mutations.
func (a *Account) Active() bool { return a.MergedInto == "" }

func (a *Account) append(tx Transaction) {
	a.Transactions = append(a.Transactions, tx)
}

// findPaid returns the Paid record matching ref, including records
// inherited from merged donors.
func (a *Account) findPaid(ref PaymentRef) *Transaction {
	for i := range a.Transactions {
		tx := &a.Transactions[i]
		if tx.Kind == KindPaid && tx.PaymentRef == ref {
			return tx
		}
	}
	return nil
}

// findCashback returns the Cashback record matching ref, including
// records inherited from merged donors.
func (a *Account) findCashback(ref PaymentRef) *Transaction {
	for i := range a.Transactions {
		tx := &a.Transactions[i]
		if tx.Kind == KindCashback && tx.PaymentRef == ref {
			return tx
		}
	}
	return nil
}

// outgoingTotal sums the magnitudes of all outgoing records, including
// records transplanted from merged donors.
func (a *Account) outgoingTotal() int64 {
	var total int64
	for _, tx := range a.Transactions {
		if tx.Outgoing() {
			total += tx.Amount
		}
	}
	return total
}

// =============================================================================
// ACCOUNT STORE - Active accounts plus archived eras
// =============================================================================

type accounts struct {
	active   map[AccountID]*Account
	archived map[AccountID][]*Account // merged-away eras, in merge order
}

func newAccounts() *accounts {
	return &accounts{
		active:   make(map[AccountID]*Account),
		archived: make(map[AccountID][]*Account),
	}
}

func (s *accounts) get(id AccountID) (*Account, bool) {
	a, ok := s.active[id]
	return a, ok
}

func (s *accounts) create(id AccountID, now Time) *Account {
	a := &Account{ID: id, CreatedAt: now}
	s.active[id] = a
	return a
}

// retire moves an active account into the archive after a merge. The
// caller has already set MergedInto and MergedAt.
func (s *accounts) retire(a *Account) {
	delete(s.active, a.ID)
	s.archived[a.ID] = append(s.archived[a.ID], a)
}

// known reports whether the id ever existed, in any era.
func (s *accounts) known(id AccountID) bool {
	if _, ok := s.active[id]; ok {
		return true
	}
	return len(s.archived[id]) > 0
}

// resolve follows merge redirects from id to the account that currently
// receives credits on its behalf. Returns nil if the id never existed or
// every account in the chain has vanished.
func (s *accounts) resolve(id AccountID) *Account {
	seen := make(map[AccountID]bool)
	for !seen[id] {
		seen[id] = true
		if a, ok := s.active[id]; ok {
			return a
		}
		eras := s.archived[id]
		if len(eras) == 0 {
			return nil
		}
		// The newest era's redirect is the live one; older eras belong to
		// histories that ended before the id was reused.
		id = eras[len(eras)-1].MergedInto
	}
	return nil
}

// eraAt resolves id to the era that existed at asOf, or nil if no era's
// lifetime contains that time. Resolution order:
//  1. The active era, when asOf is at or after its creation.
//  2. Otherwise the most recent archived era created at or before asOf,
//     provided asOf still precedes that era's merge. A query falling in
//     the gap between a merge and a later re-creation finds no era.
func (s *accounts) eraAt(id AccountID, asOf Time) *Account {
	if a, ok := s.active[id]; ok && asOf >= a.CreatedAt {
		return a
	}
	eras := s.archived[id]
	for i := len(eras) - 1; i >= 0; i-- {
		if eras[i].CreatedAt <= asOf {
			if asOf >= eras[i].MergedAt {
				return nil
			}
			return eras[i]
		}
	}
	return nil
}

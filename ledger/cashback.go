/*
cashback.go - Cashback policy and the deferred-event scheduler

PURPOSE:
  Every payment earns a refund of 2% (rounded down) credited exactly one
  day later in logical time. The scheduler holds those future credits
  keyed by due timestamp and is drained lazily: every public operation
  first applies all events due at or before its own timestamp, so a
  credit is always applied before any later-timestamped work runs.

ORDERING:
  Drains walk due timestamps in ascending order; events sharing a due
  timestamp apply in insertion order, which keeps replays deterministic.

IDEMPOTENCE:
  A drained due timestamp is removed from the pending set, so draining
  again at the same or a smaller timestamp is a no-op.

SEE ALSO:
  - engine.go: Pay schedules events, every operation drains
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CASHBACK POLICY
// =============================================================================

// CashbackPolicy determines the refund for a payment. Rate is a fraction
// of the paid amount; the refund is rounded down to a whole unit and
// credited Delay logical milliseconds after the payment.
type CashbackPolicy struct {
	Rate  decimal.Decimal
	Delay Time
}

// DefaultCashbackPolicy is 2% refunded one day later.
func DefaultCashbackPolicy() CashbackPolicy {
	return CashbackPolicy{
		Rate:  decimal.New(2, -2),
		Delay: Day,
	}
}

// Amount returns the refund earned by a payment of the given magnitude.
func (p CashbackPolicy) Amount(paid int64) int64 {
	return p.Rate.Mul(decimal.NewFromInt(paid)).Floor().IntPart()
}

// =============================================================================
// SCHEDULER - Deferred cashback events keyed by due timestamp
// =============================================================================

type cashbackEvent struct {
	Ref     PaymentRef
	Account AccountID
	Amount  int64
}

type scheduler struct {
	pending map[Time][]cashbackEvent
}

func newScheduler() *scheduler {
	return &scheduler{pending: make(map[Time][]cashbackEvent)}
}

// schedule inserts an event into the pending set for due. Multiple events
// may share a due timestamp; they retain insertion order.
func (s *scheduler) schedule(due Time, ev cashbackEvent) {
	s.pending[due] = append(s.pending[due], ev)
}

// drain invokes apply for every event due at or before now, ascending by
// due timestamp, and removes the drained entries.
func (s *scheduler) drain(now Time, apply func(due Time, ev cashbackEvent)) {
	var due []Time
	for t := range s.pending {
		if t <= now {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })

	for _, t := range due {
		events := s.pending[t]
		delete(s.pending, t)
		for _, ev := range events {
			apply(t, ev)
		}
	}
}

// redirect repoints every pending event for a merged-away account at its
// survivor, so the refund lands where the balance went.
func (s *scheduler) redirect(from, to AccountID) {
	for t, events := range s.pending {
		for i, ev := range events {
			if ev.Account == from {
				events[i].Account = to
			}
		}
		s.pending[t] = events
	}
}

package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY ARITHMETIC
// =============================================================================

func TestCashbackPolicy_RoundsDown(t *testing.T) {
	p := DefaultCashbackPolicy()

	cases := []struct {
		paid int64
		want int64
	}{
		{2000, 40},
		{300, 6},
		{99, 1},
		{49, 0},
		{0, 0},
	}
	for _, tc := range cases {
		if got := p.Amount(tc.paid); got != tc.want {
			t.Errorf("Amount(%d) = %d, want %d", tc.paid, got, tc.want)
		}
	}
}

func TestCashbackPolicy_CustomRate(t *testing.T) {
	p := CashbackPolicy{Rate: decimal.New(1, -1), Delay: Day} // 10%
	if got := p.Amount(255); got != 25 {
		t.Errorf("Amount(255) at 10%% = %d, want 25", got)
	}
}

// =============================================================================
// SCHEDULER
// =============================================================================

func TestScheduler_DrainAscendingByDueTime(t *testing.T) {
	s := newScheduler()
	s.schedule(30, cashbackEvent{Ref: "payment3", Account: "A", Amount: 3})
	s.schedule(10, cashbackEvent{Ref: "payment1", Account: "A", Amount: 1})
	s.schedule(20, cashbackEvent{Ref: "payment2", Account: "A", Amount: 2})

	var order []PaymentRef
	s.drain(25, func(_ Time, ev cashbackEvent) {
		order = append(order, ev.Ref)
	})

	if len(order) != 2 || order[0] != "payment1" || order[1] != "payment2" {
		t.Fatalf("drain order = %v, want [payment1 payment2]", order)
	}
}

func TestScheduler_SharedDueTimeKeepsInsertionOrder(t *testing.T) {
	s := newScheduler()
	s.schedule(10, cashbackEvent{Ref: "payment1"})
	s.schedule(10, cashbackEvent{Ref: "payment2"})
	s.schedule(10, cashbackEvent{Ref: "payment3"})

	var order []PaymentRef
	s.drain(10, func(_ Time, ev cashbackEvent) {
		order = append(order, ev.Ref)
	})

	want := []PaymentRef{"payment1", "payment2", "payment3"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("drain order = %v, want %v", order, want)
		}
	}
}

func TestScheduler_DrainIsIdempotent(t *testing.T) {
	s := newScheduler()
	s.schedule(10, cashbackEvent{Ref: "payment1", Amount: 5})

	applied := 0
	count := func(_ Time, _ cashbackEvent) { applied++ }

	s.drain(10, count)
	s.drain(10, count)
	s.drain(5, count)

	if applied != 1 {
		t.Fatalf("event applied %d times, want 1", applied)
	}
}

func TestScheduler_RedirectRepointsPendingEvents(t *testing.T) {
	s := newScheduler()
	s.schedule(10, cashbackEvent{Ref: "payment1", Account: "B", Amount: 5})
	s.schedule(20, cashbackEvent{Ref: "payment2", Account: "C", Amount: 7})

	s.redirect("B", "A")

	var got []AccountID
	s.drain(20, func(_ Time, ev cashbackEvent) {
		got = append(got, ev.Account)
	})

	if got[0] != "A" || got[1] != "C" {
		t.Fatalf("accounts after redirect = %v, want [A C]", got)
	}
}

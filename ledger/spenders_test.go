package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/ledger"
)

func seedSpenders(t *testing.T) *ledger.Engine {
	t.Helper()
	e := ledger.New()
	for i, id := range []ledger.AccountID{"alice", "bob", "carol"} {
		require.True(t, e.CreateAccount(ledger.Time(i+1), id))
		_, err := e.Deposit(ledger.Time(10+i), id, 10_000)
		require.NoError(t, err)
	}
	return e
}

func TestTopSpenders_RankingAndFormat(t *testing.T) {
	e := seedSpenders(t)
	_, err := e.Transfer(20, "alice", "bob", 900)
	require.NoError(t, err)
	_, err = e.Pay(21, "carol", 500)
	require.NoError(t, err)
	_, err = e.Transfer(22, "bob", "alice", 100)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"alice(900)", "carol(500)", "bob(100)"},
		e.TopSpenders(23, 10))
}

func TestTopSpenders_TiesBreakByAscendingID(t *testing.T) {
	e := seedSpenders(t)
	_, err := e.Pay(20, "carol", 300)
	require.NoError(t, err)
	_, err = e.Pay(21, "bob", 300)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"bob(300)", "carol(300)", "alice(0)"},
		e.TopSpenders(22, 3))
}

func TestTopSpenders_TruncatesToAccountCount(t *testing.T) {
	e := seedSpenders(t)
	assert.Len(t, e.TopSpenders(20, 99), 3)
	assert.Len(t, e.TopSpenders(20, 2), 2)
	assert.Empty(t, e.TopSpenders(20, 0))
}

func TestTopSpenders_CashbackNeverCounts(t *testing.T) {
	e := seedSpenders(t)
	_, err := e.Pay(20, "alice", 1000)
	require.NoError(t, err)

	// Let the refund land, then check the total is still just the payment.
	got := e.TopSpenders(20+ledger.Day, 1)
	assert.Equal(t, []string{"alice(1000)"}, got)
}

func TestTopSpenders_MergedDonorExcludedButCounted(t *testing.T) {
	e := seedSpenders(t)
	_, err := e.Pay(20, "bob", 700)
	require.NoError(t, err)
	_, err = e.Transfer(21, "alice", "carol", 200)
	require.NoError(t, err)

	require.True(t, e.MergeAccounts(25, "alice", "bob"))

	got := e.TopSpenders(26, 10)
	assert.Equal(t, []string{"alice(900)", "carol(0)"}, got,
		"donor drops from the ranking, its spending folds into the survivor")
}

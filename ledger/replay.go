/*
replay.go - Point-in-time balance reconstruction

PURPOSE:
  A balance "as of" any past logical timestamp is never cached; it is
  rebuilt by folding the transaction log under three visibility gates:

  1. Timestamp gate: only records with timestamp <= asOf contribute.
  2. Provenance gate: a record copied in by a merge at T is invisible
     before T - for earlier times it belongs exclusively to the donor's
     archived history.
  3. Deposit gate: a cashback record contributes only once the scheduler
     has actually credited it. An undeposited record with a past-looking
     timestamp can only mean the query reaches beyond the engine's
     processed time, where the credit has not happened yet.

SEE ALSO:
  - account.go: eraAt, which chooses the log to fold
  - engine.go: BalanceAt, the public entry point
*/
package ledger

// foldBalance replays a transaction log into the balance as of asOf.
func foldBalance(txs []Transaction, asOf Time) int64 {
	var balance int64
	for _, tx := range txs {
		if tx.Timestamp > asOf {
			continue
		}
		if tx.Provenance != nil && tx.Provenance.MergedAt > asOf {
			continue
		}
		switch {
		case tx.Credits():
			balance += tx.Amount
		case tx.Debits():
			balance -= tx.Amount
		}
	}
	return balance
}

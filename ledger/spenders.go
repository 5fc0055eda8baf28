/*
spenders.go - Outgoing-spend ranking

PURPOSE:
  Ranks active accounts by total outgoing money (transfers out plus
  payments; cashback never counts). Merged-away accounts are excluded,
  but their spending survives in the ranking because the merge
  transplanted their records into the survivor.

SEE ALSO:
  - account.go: outgoingTotal
*/
package ledger

import (
	"fmt"
	"sort"
)

func (e *Engine) TopSpenders(now Time, n int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	type row struct {
		id    AccountID
		total int64
	}
	rows := make([]row, 0, len(e.accounts.active))
	for id, a := range e.accounts.active {
		rows = append(rows, row{id: id, total: a.outgoingTotal()})
	}

	// Descending by total, ties broken by ascending id.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].id < rows[j].id
	})

	if n > len(rows) {
		n = len(rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("%s(%d)", rows[i].id, rows[i].total)
	}
	return out
}

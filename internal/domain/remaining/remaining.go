// Package remaining reports the confidence weights a player has not committed.
package remaining

import (
	"strconv"
	"strings"

	"github.com/okian/pickem/internal/domain/dedupe"
)

// Calculate returns {1..k} minus the ledger's committed weights, ascending.
// A zeroed duplicate never entered the ledger, so it frees nothing.
func Calculate(k int, l dedupe.Ledger) []int {
	out := make([]int, 0, max(k-l.Len(), 0))
	for w := 1; w <= k; w++ {
		if !l.Has(w) {
			out = append(out, w)
		}
	}
	return out
}

// Format renders weights as a comma-joined list, e.g. "1, 3, 6".
func Format(weights []int) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ", ")
}

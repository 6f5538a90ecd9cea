package dedupe

import "sort"

// Ledger is an immutable set of confidence weights a player has committed.
// Every mutation returns a new Ledger; the receiver is never changed.
type Ledger struct {
	weights []int // sorted ascending, unique
}

// NewLedger builds a ledger from already committed weights.
func NewLedger(weights ...int) Ledger {
	var l Ledger
	for _, w := range weights {
		_, l = l.SeenAndRecord(w)
	}
	return l
}

// Has reports whether w is committed.
func (l Ledger) Has(w int) bool {
	i := sort.SearchInts(l.weights, w)
	return i < len(l.weights) && l.weights[i] == w
}

// SeenAndRecord reports whether w was already committed and returns the
// ledger after the claim. A seen weight leaves the ledger unchanged.
func (l Ledger) SeenAndRecord(w int) (bool, Ledger) {
	i := sort.SearchInts(l.weights, w)
	if i < len(l.weights) && l.weights[i] == w {
		return true, l
	}
	next := make([]int, 0, len(l.weights)+1)
	next = append(next, l.weights[:i]...)
	next = append(next, w)
	next = append(next, l.weights[i:]...)
	return false, Ledger{weights: next}
}

// Committed returns the committed weights in ascending order.
func (l Ledger) Committed() []int {
	return append([]int(nil), l.weights...)
}

// Len returns the number of committed weights.
func (l Ledger) Len() int { return len(l.weights) }

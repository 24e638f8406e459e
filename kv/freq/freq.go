package freq

import "fmt"

// Counts is the reverse index over the committed store: for each value, the number of keys
// currently holding it. Entries are removed the moment they reach zero, so a plain lookup with a
// zero default answers NUMEQUALTO honestly and the map never accumulates tombstones.
//
// Counts must never go negative; an underflow means a caller's bookkeeping is broken and is
// treated as an unrecoverable bug, not a user-facing condition.
type Counts map[string]uint64

func NewCounts() Counts {
	return make(Counts)
}

// Increase records one more key holding value.
func (c Counts) Increase(value string) {
	c[value]++
}

// Decrease records one fewer key holding value. The entry is dropped when it reaches zero.
func (c Counts) Decrease(value string) {
	n, ok := c[value]
	if !ok {
		panic(fmt.Sprintf("freq: decrease of untracked value %q", value))
	}
	if n == 1 {
		delete(c, value)
		return
	}
	c[value] = n - 1
}

// Get returns how many keys currently hold value, zero if none.
func (c Counts) Get(value string) uint64 {
	return c[value]
}

// Apply folds a signed delta (from a transaction commit) into the count for value. The result
// must not be negative; zero removes the entry.
func (c Counts) Apply(value string, delta int64) {
	n := int64(c[value]) + delta
	if n < 0 {
		panic(fmt.Sprintf("freq: count for value %q would go negative (%d)", value, n))
	}
	if n == 0 {
		delete(c, value)
		return
	}
	c[value] = uint64(n)
}

// Delta is the net frequency contribution of all open transaction layers relative to whatever
// lies beneath them. Unlike Counts it is signed: a layer that unsets a committed key legitimately
// drives that value's entry negative. A Delta is only meaningful added to the base Counts.
//
// Zero entries are removed immediately, same as Counts.
type Delta map[string]int64

func NewDelta() Delta {
	return make(Delta)
}

func (d Delta) Increase(value string) {
	d.Modify(value, 1)
}

func (d Delta) Decrease(value string) {
	d.Modify(value, -1)
}

// Modify adjusts the delta for value by n, dropping the entry if it lands on zero.
func (d Delta) Modify(value string, n int64) {
	v := d[value] + n
	if v == 0 {
		delete(d, value)
		return
	}
	d[value] = v
}

// Get returns the net delta for value, zero if untouched.
func (d Delta) Get(value string) int64 {
	return d[value]
}

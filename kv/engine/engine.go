// Package engine ties the committed store and the transaction stack together behind the
// operations the command surface needs: get/set/unset/numequalto plus begin/rollback/commit.
// Per call it decides whether an operation targets the top transaction layer or the base store
// directly; every mutating call first resolves the key's current merged value so frequency
// deltas come out right.
package engine

import (
	"github.com/simpledb-incubator/simpledb/kv/store"
	"github.com/simpledb-incubator/simpledb/kv/txn"
)

// Engine is one logical database session. There is exactly one caller; no locking.
type Engine struct {
	store *store.Store
	stack *txn.Stack
}

func New() *Engine {
	s := store.NewStore()
	return &Engine{
		store: s,
		stack: txn.NewStack(s),
	}
}

// Get returns the merged current value for key: the topmost open layer's entry if any layer has
// modified it (a recorded deletion reads as absent), otherwise the committed value.
func (e *Engine) Get(key string) (string, bool) {
	if e.stack.Active() {
		if entry, ok := e.stack.Get(key); ok {
			if entry.Kind == txn.EntryDeleted {
				return "", false
			}
			return entry.Value, true
		}
	}
	return e.store.Get(key)
}

// Set assigns value to key, in the current transaction layer if one is open, else directly in
// the committed store. Setting a key to its current value is a no-op: no data, frequency, or
// history change.
func (e *Engine) Set(key, value string) {
	old, ok := e.Get(key)
	if ok && old == value {
		return
	}
	if e.stack.Active() {
		e.stack.Set(key, old, ok, value)
		return
	}
	e.store.Set(key, value)
}

// Unset removes key, as if it was never set. Unsetting an absent key is a no-op.
func (e *Engine) Unset(key string) {
	old, ok := e.Get(key)
	if !ok {
		return
	}
	if e.stack.Active() {
		e.stack.Unset(key, old, ok)
		return
	}
	e.store.Unset(key)
}

// NumEqualTo returns how many keys currently hold value in the merged view. The committed count
// and the stack's delta are always summed; the delta is zero-valued when no transaction is open.
func (e *Engine) NumEqualTo(value string) int64 {
	return int64(e.store.NumEqualTo(value)) + e.stack.NumEqualTo(value)
}

// Begin opens a new transaction block. Blocks nest without bound.
func (e *Engine) Begin() {
	e.stack.Begin()
}

// Rollback undoes and closes the most recent transaction block. It reports false when no
// transaction is open, in which case nothing changes.
func (e *Engine) Rollback() bool {
	if !e.stack.Active() {
		return false
	}
	e.stack.Rollback()
	return true
}

// Commit permanently applies all open transaction blocks to the committed store and closes every
// one of them. It reports false when no transaction is open.
func (e *Engine) Commit() bool {
	if !e.stack.Active() {
		return false
	}
	e.stack.Commit()
	return true
}

// InTransaction reports whether any transaction block is open.
func (e *Engine) InTransaction() bool {
	return e.stack.Active()
}

// Depth returns the number of open transaction blocks.
func (e *Engine) Depth() int {
	return e.stack.Depth()
}

// AscendCommitted visits the committed key/value pairs in key order, ignoring open transaction
// layers. Intended for tests and debug dumps.
func (e *Engine) AscendCommitted(fn func(key, value string) bool) {
	e.store.Ascend(fn)
}

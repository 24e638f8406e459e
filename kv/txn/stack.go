// Package txn implements the nested transaction stack.
//
// Each open BEGIN block is a layer. Rather than giving every layer a private copy of the key
// space, the stack keeps one shared per-key history: an append-only sequence of tagged entries,
// most recent last. A layer owns at most one entry per key — its first write appends, later
// writes overwrite that entry in place — so a key's history length equals the number of distinct
// open layers that ever wrote it, and rolling a layer back costs time proportional to the keys
// that layer touched, not the whole store. Each layer records only the set of keys it touched;
// that set is the back-reference used to pop the right entries on rollback.
//
// Alongside the history the stack maintains a signed frequency delta: the net contribution of
// all open layers to each value's key count, relative to the base store. The delta is only
// meaningful added to the store's own counts.
package txn

import (
	"github.com/simpledb-incubator/simpledb/kv/freq"
	"github.com/simpledb-incubator/simpledb/kv/store"
)

type EntryKind int64

const (
	// EntryWritten records a value written by a layer.
	EntryWritten EntryKind = 1
	// EntryDeleted records that the key does not exist as of the layer that wrote the entry.
	// Distinct from the key being absent from history entirely, which means "unmodified by any
	// open layer".
	EntryDeleted EntryKind = 2
)

// Entry is one record in a key's layered history.
type Entry struct {
	Kind  EntryKind
	Value string
}

type layer struct {
	touched map[string]struct{}
}

// Stack is the ordered stack of open transaction layers. The zero number of layers means no
// transaction is active and every data command commits immediately to the base store.
type Stack struct {
	base    *store.Store
	history map[string][]Entry
	layers  []layer
	delta   freq.Delta
}

// NewStack creates an empty stack over base. The base reference is consulted on rollback (to
// re-derive a key's current value once the last open layer's write is undone) and receives the
// folded writes on commit.
func NewStack(base *store.Store) *Stack {
	return &Stack{
		base:    base,
		history: make(map[string][]Entry),
		delta:   freq.NewDelta(),
	}
}

// Active reports whether any transaction is open.
func (s *Stack) Active() bool {
	return len(s.layers) > 0
}

// Depth returns the number of open transaction layers.
func (s *Stack) Depth() int {
	return len(s.layers)
}

// Get looks key up in the aggregate history. When found, the last entry is authoritative: it may
// be a deletion, which the caller must translate to "absent". Not found means no open layer has
// modified the key and the caller should fall through to the base store.
func (s *Stack) Get(key string) (Entry, bool) {
	hist := s.history[key]
	if len(hist) == 0 {
		return Entry{}, false
	}
	return hist[len(hist)-1], true
}

// Set records key=newValue in the current layer. oldValue/oldOK is the key's pre-write merged
// value as resolved by the caller; it is only used to keep the frequency delta in step. No-op if
// no transaction is open.
func (s *Stack) Set(key string, oldValue string, oldOK bool, newValue string) {
	if !s.Active() {
		return
	}
	s.record(key, Entry{Kind: EntryWritten, Value: newValue})
	if oldOK {
		s.delta.Decrease(oldValue)
	}
	s.delta.Increase(newValue)
}

// Unset records the deletion of key in the current layer. No-op if no transaction is open or the
// key is already absent from the merged view (nothing to undo). A deletion never increases any
// value's count, so only the old value's delta moves.
func (s *Stack) Unset(key string, oldValue string, oldOK bool) {
	if !s.Active() || !oldOK {
		return
	}
	s.record(key, Entry{Kind: EntryDeleted})
	s.delta.Decrease(oldValue)
}

// record appends entry to key's history, or overwrites the current layer's own last entry if this
// layer has already written the key. A layer must never own more than one entry per key.
func (s *Stack) record(key string, entry Entry) {
	top := s.layers[len(s.layers)-1]
	hist := s.history[key]
	if _, owned := top.touched[key]; owned {
		hist[len(hist)-1] = entry
		return
	}
	s.history[key] = append(hist, entry)
	top.touched[key] = struct{}{}
}

// NumEqualTo returns the open layers' net contribution to value's key count. By itself this may
// be negative; it is only meaningful added to the base store's count.
func (s *Stack) NumEqualTo(value string) int64 {
	return s.delta.Get(value)
}

// Begin opens a new transaction layer.
func (s *Stack) Begin() {
	s.layers = append(s.layers, layer{touched: make(map[string]struct{})})
}

// Rollback closes the most recent layer, undoing every write it made. With a single layer open
// this degenerates to discarding all transaction state. The caller is responsible for rejecting
// a rollback with no transaction open; calling it anyway is a no-op.
func (s *Stack) Rollback() {
	if !s.Active() {
		return
	}
	if len(s.layers) == 1 {
		s.clear()
		return
	}

	top := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]

	for key := range top.touched {
		hist := s.history[key]
		popped := hist[len(hist)-1]
		hist = hist[:len(hist)-1]
		if len(hist) == 0 {
			delete(s.history, key)
		} else {
			s.history[key] = hist
		}

		// Whatever is current once this layer's write is undone regains a count; the undone
		// write loses one. Deletions and absent keys contribute nothing either way.
		if len(hist) > 0 {
			if last := hist[len(hist)-1]; last.Kind == EntryWritten {
				s.delta.Increase(last.Value)
			}
		} else if v, ok := s.base.Get(key); ok {
			s.delta.Increase(v)
		}
		if popped.Kind == EntryWritten {
			s.delta.Decrease(popped.Value)
		}
	}
}

// Commit folds every open layer into the base store and closes all of them at once. Each key's
// last history entry is already the collapsed result across layers (layers overwrite rather than
// duplicate), so one batch per key suffices; the aggregate delta carries the frequency changes.
// The caller rejects a commit with no transaction open; calling it anyway is a no-op.
func (s *Stack) Commit() {
	if !s.Active() {
		return
	}
	batch := make([]store.Modify, 0, len(s.history))
	for key, hist := range s.history {
		switch last := hist[len(hist)-1]; last.Kind {
		case EntryWritten:
			batch = append(batch, store.Modify{
				Type: store.ModifyTypePut,
				Data: store.Put{Key: key, Value: last.Value},
			})
		case EntryDeleted:
			batch = append(batch, store.Modify{
				Type: store.ModifyTypeDelete,
				Data: store.Delete{Key: key},
			})
		}
	}
	s.base.Apply(batch, s.delta)
	s.clear()
}

func (s *Stack) clear() {
	s.history = make(map[string][]Entry)
	s.layers = nil
	s.delta = freq.NewDelta()
}

package store

import (
	"fmt"

	"github.com/petar/GoLLRB/llrb"

	"github.com/simpledb-incubator/simpledb/kv/freq"
)

// Store is the committed base state: key/value pairs plus the reverse frequency index over the
// values currently held. It is mutated either by direct writes (no transaction open) or by a
// commit folding in a batch of resolved transaction writes; it is never touched while a
// transaction is open except by that commit.
type Store struct {
	data   *llrb.LLRB
	counts freq.Counts
}

func NewStore() *Store {
	return &Store{
		data:   llrb.New(),
		counts: freq.NewCounts(),
	}
}

// Get returns the committed value for key.
func (s *Store) Get(key string) (string, bool) {
	result := s.data.Get(item{key: key})
	if result == nil {
		return "", false
	}
	return result.(item).value, true
}

// Set writes key=value directly into the committed state, keeping the frequency index in step.
// Only valid when no transaction is open; transactional writes go through the stack and arrive
// here via Apply.
func (s *Store) Set(key, value string) {
	if old, ok := s.Get(key); ok {
		if old == value {
			return
		}
		s.counts.Decrease(old)
	}
	s.data.ReplaceOrInsert(item{key: key, value: value})
	s.counts.Increase(value)
}

// Unset removes key from the committed state. Removing an absent key is a no-op.
func (s *Store) Unset(key string) {
	old, ok := s.Get(key)
	if !ok {
		return
	}
	s.data.Delete(item{key: key})
	s.counts.Decrease(old)
}

// NumEqualTo returns how many committed keys currently hold value.
func (s *Store) NumEqualTo(value string) uint64 {
	return s.counts.Get(value)
}

// Apply folds a transaction commit into the store: the batch carries the resolved last write per
// key, the delta carries the net frequency contribution of all the layers that produced it. The
// two are applied separately (data first, then counts) so frequencies are never recomputed from
// the data.
func (s *Store) Apply(batch []Modify, delta freq.Delta) {
	for _, m := range batch {
		switch data := m.Data.(type) {
		case Put:
			s.data.ReplaceOrInsert(item{key: data.Key, value: data.Value})
		case Delete:
			s.data.Delete(item{key: data.Key})
		default:
			panic(fmt.Sprintf("store: bad modify %T", m.Data))
		}
	}
	for value, n := range delta {
		s.counts.Apply(value, n)
	}
}

// Len returns the number of committed keys.
func (s *Store) Len() int {
	return s.data.Len()
}

// Ascend visits every committed key/value pair in key order, stopping early if fn returns false.
func (s *Store) Ascend(fn func(key, value string) bool) {
	s.data.AscendGreaterOrEqual(item{}, func(i llrb.Item) bool {
		kv := i.(item)
		return fn(kv.key, kv.value)
	})
}

type item struct {
	key   string
	value string
}

func (it item) Less(than llrb.Item) bool {
	return it.key < than.(item).key
}

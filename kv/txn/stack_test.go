package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simpledb-incubator/simpledb/kv/store"
)

func newTestStack() (*store.Store, *Stack) {
	base := store.NewStore()
	return base, NewStack(base)
}

func TestInactiveStackIgnoresWrites(t *testing.T) {
	_, s := newTestStack()

	s.Set("a", "", false, "1")
	s.Unset("a", "1", true)

	assert.False(t, s.Active())
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.NumEqualTo("1"))
}

func TestLayerOwnsOneHistoryEntryPerKey(t *testing.T) {
	_, s := newTestStack()
	s.Begin()

	s.Set("a", "", false, "1")
	s.Set("a", "1", true, "2")
	s.Set("a", "2", true, "3")

	// repeated writes in the same layer overwrite in place, they never append
	assert.Equal(t, 1, len(s.history["a"]))
	entry, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, Entry{Kind: EntryWritten, Value: "3"}, entry)
	assert.Equal(t, int64(1), s.NumEqualTo("3"))
	assert.Equal(t, int64(0), s.NumEqualTo("1"))
	assert.Equal(t, int64(0), s.NumEqualTo("2"))

	s.Begin()
	s.Set("a", "3", true, "4")
	assert.Equal(t, 2, len(s.history["a"]))
}

func TestUnsetRecordsDeletedEntry(t *testing.T) {
	base, s := newTestStack()
	base.Set("a", "1")

	s.Begin()
	s.Unset("a", "1", true)

	entry, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, EntryDeleted, entry.Kind)
	// the committed key no longer counts towards "1" in the merged view
	assert.Equal(t, int64(-1), s.NumEqualTo("1"))
}

func TestUnsetAbsentKeyNoop(t *testing.T) {
	_, s := newTestStack()
	s.Begin()

	s.Unset("a", "", false)

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, len(s.history))
}

func TestRollbackSingleLayerClearsEverything(t *testing.T) {
	base, s := newTestStack()
	base.Set("a", "1")

	s.Begin()
	s.Set("a", "1", true, "2")
	s.Set("b", "", false, "2")
	s.Rollback()

	assert.False(t, s.Active())
	assert.Equal(t, 0, len(s.history))
	assert.Equal(t, int64(0), s.NumEqualTo("1"))
	assert.Equal(t, int64(0), s.NumEqualTo("2"))

	v, ok := base.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestRollbackInnerLayerRestoresOuterWrite(t *testing.T) {
	_, s := newTestStack()

	s.Begin()
	s.Set("a", "", false, "10")
	s.Begin()
	s.Set("a", "10", true, "20")
	s.Rollback()

	assert.Equal(t, 1, s.Depth())
	entry, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, Entry{Kind: EntryWritten, Value: "10"}, entry)
	assert.Equal(t, int64(1), s.NumEqualTo("10"))
	assert.Equal(t, int64(0), s.NumEqualTo("20"))
}

func TestRollbackInnerLayerFallsBackToStore(t *testing.T) {
	base, s := newTestStack()
	base.Set("a", "1")

	s.Begin()
	s.Begin()
	s.Set("a", "1", true, "2")
	s.Rollback()

	// the inner layer's write is gone; the key reverts to the committed value,
	// so the net delta for both values is zero again
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.NumEqualTo("1"))
	assert.Equal(t, int64(0), s.NumEqualTo("2"))
	assert.Equal(t, 0, len(s.history))
}

func TestRollbackInnerLayerUndoesDelete(t *testing.T) {
	base, s := newTestStack()
	base.Set("a", "1")

	s.Begin()
	s.Begin()
	s.Unset("a", "1", true)
	s.Rollback()

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.NumEqualTo("1"))
}

func TestRollbackRevealsEnclosingDelete(t *testing.T) {
	base, s := newTestStack()
	base.Set("a", "1")

	s.Begin()
	s.Unset("a", "1", true)
	s.Begin()
	s.Set("a", "", false, "2")
	s.Rollback()

	// the outer layer's deletion is current again; nothing regains a count
	entry, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, EntryDeleted, entry.Kind)
	assert.Equal(t, int64(-1), s.NumEqualTo("1"))
	assert.Equal(t, int64(0), s.NumEqualTo("2"))
}

func TestCommitFoldsAllLayersIntoStore(t *testing.T) {
	base, s := newTestStack()
	base.Set("a", "1")
	base.Set("b", "1")

	s.Begin()
	s.Set("a", "1", true, "2")
	s.Begin()
	s.Set("a", "2", true, "3")
	s.Unset("b", "1", true)
	s.Commit()

	assert.False(t, s.Active())
	assert.Equal(t, 0, len(s.history))

	v, ok := base.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	_, ok = base.Get("b")
	assert.False(t, ok)
	assert.Equal(t, uint64(0), base.NumEqualTo("1"))
	assert.Equal(t, uint64(0), base.NumEqualTo("2"))
	assert.Equal(t, uint64(1), base.NumEqualTo("3"))
}

func TestCommitMatchesDirectWrites(t *testing.T) {
	// BEGIN; ops1; BEGIN; ops2; COMMIT must equal applying ops1 then ops2 directly.
	direct := store.NewStore()
	direct.Set("a", "10")
	direct.Set("b", "10")
	direct.Unset("a")
	direct.Set("b", "20")

	base, s := newTestStack()
	s.Begin()
	s.Set("a", "", false, "10")
	s.Set("b", "", false, "10")
	s.Begin()
	s.Unset("a", "10", true)
	s.Set("b", "10", true, "20")
	s.Commit()

	assert.Equal(t, direct.Len(), base.Len())
	direct.Ascend(func(key, value string) bool {
		v, ok := base.Get(key)
		assert.True(t, ok)
		assert.Equal(t, value, v)
		return true
	})
	assert.Equal(t, direct.NumEqualTo("10"), base.NumEqualTo("10"))
	assert.Equal(t, direct.NumEqualTo("20"), base.NumEqualTo("20"))
}

func TestRollbackEmptyStackNoop(t *testing.T) {
	_, s := newTestStack()
	s.Rollback()
	s.Commit()
	assert.False(t, s.Active())
}

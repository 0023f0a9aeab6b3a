package committer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingFixture(netuid uint16, mecid uint8) *PendingCommit {
	return &PendingCommit{
		Netuid:      netuid,
		MechanismID: mecid,
		Version:     ProtocolCRv4,
		CommitBlock: 1000,
		CommitEpoch: 10,
		UIDs:        []uint16{1, 2},
		Weights:     []uint16{30000, 35535},
		VersionKey:  7,
		RevealRound: 5401,
		TxHash:      "0xdead",
		CommittedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestStorePutRejectsOccupiedKey(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put(pendingFixture(1, 0)))

	err := s.Put(pendingFixture(1, 0))
	assert.ErrorIs(t, err, ErrCommitInProgress)

	// Different mechanism on the same subnet is an independent slot.
	require.NoError(t, s.Put(pendingFixture(1, 1)))
	assert.Equal(t, 2, s.Len())
}

func TestStoreDeleteFreesKey(t *testing.T) {
	s := NewStore()
	k := Key{Netuid: 1, MechanismID: 0}
	require.NoError(t, s.Put(pendingFixture(1, 0)))

	s.Delete(k)
	assert.False(t, s.Has(k))
	assert.NoError(t, s.Put(pendingFixture(1, 0)))
}

func TestStoreKeysStableOrder(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put(pendingFixture(5, 1)))
	require.NoError(t, s.Put(pendingFixture(1, 2)))
	require.NoError(t, s.Put(pendingFixture(5, 0)))

	assert.Equal(t, []Key{
		{Netuid: 1, MechanismID: 2},
		{Netuid: 5, MechanismID: 0},
		{Netuid: 5, MechanismID: 1},
	}, s.Keys())
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json.zst")

	s := NewStore()
	require.NoError(t, s.Put(pendingFixture(1, 0)))
	require.NoError(t, s.Put(pendingFixture(2, 3)))
	require.NoError(t, s.SaveSnapshot(path))

	restored := NewStore()
	require.NoError(t, restored.LoadSnapshot(path))
	assert.Equal(t, 2, restored.Len())

	got := restored.Get(Key{Netuid: 2, MechanismID: 3})
	require.NotNil(t, got)
	assert.Equal(t, pendingFixture(2, 3), got)
}

func TestSnapshotMissingFileIsEmpty(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.LoadSnapshot(filepath.Join(t.TempDir(), "absent.json.zst")))
	assert.Equal(t, 0, s.Len())
}

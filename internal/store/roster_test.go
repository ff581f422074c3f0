package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/pkg/storage"
)

func newTestRoster(t *testing.T) (*Roster, *storage.KV) {
	t.Helper()
	kv, err := storage.NewKV(t.TempDir())
	require.NoError(t, err)
	r := NewRoster(kv, "roster", zap.NewNop())
	require.NoError(t, r.Load())
	return r, kv
}

func TestRosterAddPreservesInsertionOrder(t *testing.T) {
	r, _ := newTestRoster(t)

	r.Add("Carla")
	r.Add("Ana")
	r.Add("Ben")
	assert.Equal(t, []string{"Carla", "Ana", "Ben"}, r.Names())
}

func TestRosterDuplicateAddIsNoOp(t *testing.T) {
	r, _ := newTestRoster(t)

	r.Add("Ana")
	r.Add("Ana")
	assert.Equal(t, []string{"Ana"}, r.Names())
}

func TestRosterRemoveDropsOnlyNamedEntry(t *testing.T) {
	r, _ := newTestRoster(t)

	r.Add("Ana")
	r.Add("Ben")
	r.Add("Carla")

	r.Remove("Ben")
	assert.Equal(t, []string{"Ana", "Carla"}, r.Names())

	r.Remove("Nobody")
	assert.Equal(t, []string{"Ana", "Carla"}, r.Names())
}

func TestRosterPersistsAcrossReload(t *testing.T) {
	r, kv := newTestRoster(t)
	r.Add("Ana")

	reloaded := NewRoster(kv, "roster", zap.NewNop())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"Ana"}, reloaded.Names())
}

func TestRosterResetsCorruptedData(t *testing.T) {
	kv, err := storage.NewKV(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Set("roster", "[broken"))

	r := NewRoster(kv, "roster", zap.NewNop())
	require.NoError(t, r.Load())
	assert.Empty(t, r.Names())
}

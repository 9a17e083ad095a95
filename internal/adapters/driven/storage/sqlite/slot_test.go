package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlot(t *testing.T) *HistorySlot {
	t.Helper()
	slot, err := NewHistorySlot(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { slot.Close() })
	return slot
}

func TestHistorySlot_ReadEmpty(t *testing.T) {
	slot := newTestSlot(t)

	data, err := slot.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestHistorySlot_WriteReadRoundTrip(t *testing.T) {
	slot := newTestSlot(t)
	ctx := context.Background()

	payload := []byte(`[{"id":"1","description":"note"}]`)
	require.NoError(t, slot.Write(ctx, payload))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestHistorySlot_WriteReplacesWholeBlob(t *testing.T) {
	slot := newTestSlot(t)
	ctx := context.Background()

	require.NoError(t, slot.Write(ctx, []byte(`["old"]`)))
	require.NoError(t, slot.Write(ctx, []byte(`["new"]`)))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["new"]`), data)
}

func TestHistorySlot_Reset(t *testing.T) {
	slot := newTestSlot(t)
	ctx := context.Background()

	require.NoError(t, slot.Write(ctx, []byte(`["x"]`)))
	require.NoError(t, slot.Reset(ctx))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	// Reset on an already empty slot is a no-op.
	require.NoError(t, slot.Reset(ctx))
}

func TestHistorySlot_Ping(t *testing.T) {
	slot := newTestSlot(t)
	assert.NoError(t, slot.Ping(context.Background()))

	// A closed database fails the probe.
	require.NoError(t, slot.Close())
	assert.Error(t, slot.Ping(context.Background()))
}

func TestHistorySlot_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	slot, err := NewHistorySlot(dir)
	require.NoError(t, err)
	require.NoError(t, slot.Write(ctx, []byte(`["durable"]`)))
	require.NoError(t, slot.Close())

	reopened, err := NewHistorySlot(dir)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["durable"]`), data)
	assert.Equal(t, filepath.Join(dir, "history.db"), reopened.Path())
}

package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/atelier-pos/internal/storage"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	drv, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	blob := []byte(`[{"id":"postcard","quantity":120}]`)
	require.NoError(t, drv.Save(ctx, storage.KeyInventory, blob))

	got, ok, err := drv.Load(ctx, storage.KeyInventory)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blob, got)
}

func TestLoad_AbsentKey(t *testing.T) {
	drv, err := New(t.TempDir())
	require.NoError(t, err)

	_, ok, err := drv.Load(context.Background(), storage.KeySales)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSave_Overwrites(t *testing.T) {
	drv, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, drv.Save(ctx, storage.KeyTitle, []byte(`"old"`)))
	require.NoError(t, drv.Save(ctx, storage.KeyTitle, []byte(`"new"`)))

	got, ok, err := drv.Load(ctx, storage.KeyTitle)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`"new"`), got)
}

func TestPing(t *testing.T) {
	drv, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, drv.Ping(context.Background()))
}

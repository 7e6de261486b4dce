package sqlite

import (
	"context"
	"testing"

	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/aevon-lab/piecesync/internal/core/storage"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter, err := NewAdapter(db)
	require.NoError(t, err)
	return adapter
}

func TestAdapter_CreateAndExists(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	meta := &piece.Metadata{
		Name:        "slack",
		Version:     "0.5.2",
		DisplayName: "Slack",
		ArchiveID:   "file-1",
		Triggers:    map[string]any{"new_message": map[string]any{"type": "polling"}},
	}
	require.NoError(t, adapter.Create(ctx, storage.CreateParams{
		Metadata:    meta,
		PieceType:   piece.PieceTypeOfficial,
		PackageType: piece.PackageTypeArchive,
	}))

	exists, err := adapter.ExistsBy(ctx, storage.ExistsQuery{Name: "slack", Version: "0.5.2", PieceType: piece.PieceTypeOfficial})
	require.NoError(t, err)
	require.True(t, exists, "row of any package type counts when package type is omitted")

	registry := piece.PackageTypeRegistry
	exists, err = adapter.ExistsBy(ctx, storage.ExistsQuery{Name: "slack", Version: "0.5.2", PieceType: piece.PieceTypeOfficial, PackageType: &registry})
	require.NoError(t, err)
	require.False(t, exists)

	err = adapter.Create(ctx, storage.CreateParams{
		Metadata:    meta,
		PieceType:   piece.PieceTypeOfficial,
		PackageType: piece.PackageTypeArchive,
	})
	require.ErrorIs(t, err, storage.ErrDuplicate)

	rows, err := adapter.ListByName(ctx, "slack")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "file-1", rows[0].ArchiveID)
	require.Equal(t, piece.PackageTypeArchive, rows[0].PackageType)
	require.Len(t, rows[0].Triggers, 1)
}

func TestAdapter_ListAll(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	for _, m := range []*piece.Metadata{
		{Name: "slack", Version: "0.5.1"},
		{Name: "gmail", Version: "1.0.0"},
		{Name: "slack", Version: "0.5.2"},
	} {
		require.NoError(t, adapter.Create(ctx, storage.CreateParams{
			Metadata:    m,
			PieceType:   piece.PieceTypeOfficial,
			PackageType: piece.PackageTypeRegistry,
		}))
	}

	rows, err := adapter.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "gmail", rows[0].Name)
	require.Equal(t, "0.5.1", rows[1].Version)
	require.Equal(t, "0.5.2", rows[2].Version)
}

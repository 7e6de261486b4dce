package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/aevon-lab/piecesync/internal/archive"
	"github.com/aevon-lab/piecesync/internal/core/piece"
	filestoremocks "github.com/aevon-lab/piecesync/internal/mocks/filestore"
	"github.com/stretchr/testify/require"
)

type staticDiscoverer struct {
	pieces []piece.Metadata
	err    error
	calls  int
}

func (d *staticDiscoverer) FindAllPieces(ctx context.Context) ([]piece.Metadata, error) {
	d.calls++
	out := make([]piece.Metadata, len(d.pieces))
	copy(out, d.pieces)
	return out, d.err
}

type stubArchiver struct {
	file  *piece.File
	calls int
}

func (a *stubArchiver) Create(ctx context.Context, m *piece.Metadata) *piece.File {
	a.calls++
	return a.file
}

type countingRunner struct{ calls int }

func (r *countingRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	r.calls++
	return nil, nil, errors.New("unexpected packaging call")
}

func twoPieces() []piece.Metadata {
	return []piece.Metadata{
		{
			Name:          "slack",
			Version:       "0.5.2",
			DirectoryPath: "/build/slack",
			Actions:       map[string]any{"a": nil, "b": nil, "c": nil},
			Triggers:      map[string]any{"t": nil},
		},
		{
			Name:          "gmail",
			Version:       "1.0.0",
			DirectoryPath: "/build/gmail",
			Actions:       map[string]any{"send": nil},
		},
	}
}

func TestLocalSource_List(t *testing.T) {
	src := NewLocalSource(&staticDiscoverer{pieces: twoPieces()}, &stubArchiver{})

	summaries, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	require.Equal(t, piece.PackageTypeArchive, summaries[0].PackageType)
	require.Equal(t, piece.PieceTypeOfficial, summaries[0].PieceType)
	require.Equal(t, 3, summaries[0].Actions)
	require.Equal(t, 1, summaries[0].Triggers)
	require.Zero(t, summaries[0].ProjectUsage)
	require.Equal(t, DefaultMinimumRelease, summaries[0].MinimumSupportedRelease)
	require.Equal(t, DefaultMaximumRelease, summaries[0].MaximumSupportedRelease)

	require.Equal(t, piece.PackageTypeArchive, summaries[1].PackageType)
	require.Equal(t, 1, summaries[1].Actions)
	require.Equal(t, 0, summaries[1].Triggers)
	require.True(t, src.IsLocal())
}

func TestLocalSource_ListVersions(t *testing.T) {
	discoverer := &staticDiscoverer{pieces: twoPieces()}
	src := NewLocalSource(discoverer, &stubArchiver{})

	versions, err := src.ListVersions(context.Background(), "gmail")
	require.NoError(t, err)
	require.Equal(t, VersionMap{"1.0.0": {}}, versions)
	require.Equal(t, 1, discoverer.calls)

	versions, err = src.ListVersions(context.Background(), "jira")
	require.NoError(t, err)
	require.Empty(t, versions, "a piece gone from disk has no versions")
	require.Equal(t, 2, discoverer.calls, "each call rescans")
}

func TestLocalSource_Fetch_AttachesArchive(t *testing.T) {
	archiver := &stubArchiver{file: &piece.File{ID: "file-42"}}
	src := NewLocalSource(&staticDiscoverer{pieces: twoPieces()}, archiver)

	m, err := src.Fetch(context.Background(), "slack", "0.5.2")
	require.NoError(t, err)
	require.Equal(t, "file-42", m.ArchiveID)
	require.Equal(t, piece.PackageTypeArchive, m.PackageType)
	require.Equal(t, piece.PieceTypeOfficial, m.PieceType)
	require.Equal(t, 1, archiver.calls)
	require.Equal(t, DefaultMinimumRelease, m.MinimumSupportedRelease)
	require.Equal(t, DefaultMaximumRelease, m.MaximumSupportedRelease)

	_, err = src.Fetch(context.Background(), "slack", "0.4.0")
	require.ErrorIs(t, err, ErrPieceNotFound)
}

func TestLocalSource_Fetch_NoDirectorySkipsPackaging(t *testing.T) {
	runner := &countingRunner{}
	packager := archive.NewPackager(runner, filestoremocks.NewStore(t), "", t.TempDir())
	discoverer := &staticDiscoverer{pieces: []piece.Metadata{{Name: "slack", Version: "0.5.2"}}}
	src := NewLocalSource(discoverer, packager)

	m, err := src.Fetch(context.Background(), "slack", "")
	require.NoError(t, err)
	require.Empty(t, m.ArchiveID)
	require.Equal(t, piece.PackageTypeArchive, m.PackageType)
	require.Zero(t, runner.calls)
}

func TestLocalSource_DiscoveryFailure(t *testing.T) {
	src := NewLocalSource(&staticDiscoverer{err: errors.New("permission denied")}, &stubArchiver{})

	_, err := src.List(context.Background())
	require.ErrorContains(t, err, "permission denied")
}

func TestLocalSource_KeepsDeclaredReleaseBounds(t *testing.T) {
	pieces := []piece.Metadata{{
		Name:                    "slack",
		Version:                 "0.5.2",
		MinimumSupportedRelease: "0.20.0",
	}}
	src := NewLocalSource(&staticDiscoverer{pieces: pieces}, &stubArchiver{})

	m, err := src.Fetch(context.Background(), "slack", "0.5.2")
	require.NoError(t, err)
	require.Equal(t, "0.20.0", m.MinimumSupportedRelease)
	require.Equal(t, DefaultMaximumRelease, m.MaximumSupportedRelease)
}

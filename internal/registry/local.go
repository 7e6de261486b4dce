package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

// Discoverer finds pieces built on the local filesystem.
type Discoverer interface {
	// FindAllPieces returns every discovered piece, ignoring any developer filter.
	FindAllPieces(ctx context.Context) ([]piece.Metadata, error)
}

// Archiver packages a local piece. A nil result means no archive is available.
type Archiver interface {
	Create(ctx context.Context, m *piece.Metadata) *piece.File
}

// LocalSource serves pieces found by a Discoverer. Every call rescans, and
// every local piece has exactly one (current) version.
type LocalSource struct {
	discoverer Discoverer
	archiver   Archiver
}

func NewLocalSource(discoverer Discoverer, archiver Archiver) *LocalSource {
	if discoverer == nil {
		panic("registry: discoverer must not be nil")
	}
	if archiver == nil {
		panic("registry: archiver must not be nil")
	}
	return &LocalSource{discoverer: discoverer, archiver: archiver}
}

func (s *LocalSource) IsLocal() bool { return true }

// List synthesizes summaries as OFFICIAL archive pieces with zero usage.
func (s *LocalSource) List(ctx context.Context) ([]piece.Summary, error) {
	pieces, err := s.discoverer.FindAllPieces(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover local pieces: %w", err)
	}

	summaries := make([]piece.Summary, 0, len(pieces))
	for i := range pieces {
		fillReleaseBounds(&pieces[i])
		sum := pieces[i].Summary()
		sum.PackageType = piece.PackageTypeArchive
		sum.PieceType = piece.PieceTypeOfficial
		sum.ProjectUsage = 0
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// ListVersions returns the single local version. A name that is no longer
// on disk yields an empty map, so a piece removed mid-pass is skipped.
func (s *LocalSource) ListVersions(ctx context.Context, name string) (VersionMap, error) {
	m, err := s.find(ctx, name)
	if errors.Is(err, ErrPieceNotFound) {
		return VersionMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	return VersionMap{m.Version: {}}, nil
}

// Fetch packages the piece and returns its metadata with the archive attached.
func (s *LocalSource) Fetch(ctx context.Context, name, version string) (*piece.Metadata, error) {
	m, err := s.find(ctx, name)
	if err != nil {
		return nil, err
	}
	if version != "" && version != m.Version {
		return nil, fmt.Errorf("%w: %s@%s (local version is %s)", ErrPieceNotFound, name, version, m.Version)
	}

	fillReleaseBounds(m)
	m.PieceType = piece.PieceTypeOfficial
	m.PackageType = piece.PackageTypeArchive
	m.ArchiveID = ""
	if file := s.archiver.Create(ctx, m); file != nil {
		m.ArchiveID = file.ID
	}
	return m, nil
}

func (s *LocalSource) find(ctx context.Context, name string) (*piece.Metadata, error) {
	pieces, err := s.discoverer.FindAllPieces(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover local pieces: %w", err)
	}
	for i := range pieces {
		if pieces[i].Name == name {
			m := pieces[i]
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPieceNotFound, name)
}

// Release bounds recorded for local pieces that declare none.
const (
	DefaultMinimumRelease = "0.0.0"
	DefaultMaximumRelease = "999.999.999"
)

func fillReleaseBounds(m *piece.Metadata) {
	if m.MinimumSupportedRelease == "" {
		m.MinimumSupportedRelease = DefaultMinimumRelease
	}
	if m.MaximumSupportedRelease == "" {
		m.MaximumSupportedRelease = DefaultMaximumRelease
	}
}

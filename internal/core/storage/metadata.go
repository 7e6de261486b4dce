package storage

import (
	"context"
	"errors"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

var (
	// ErrDuplicate is returned when a row for (name, version, piece_type, package_type) already exists.
	ErrDuplicate = errors.New("piece metadata already exists")

	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("piece metadata not found")
)

// ExistsQuery identifies a stored piece version.
// A nil PackageType leaves package_type out of the match, so a row of any
// package classification counts as present.
type ExistsQuery struct {
	Name        string
	Version     string
	PieceType   piece.PieceType
	PackageType *piece.PackageType
}

// CreateParams describes one row to insert.
type CreateParams struct {
	Metadata    *piece.Metadata
	PackageType piece.PackageType
	PieceType   piece.PieceType
}

// MetadataWriter is the write side used by the reconciler.
// The catalog is append-only: rows are never updated or deleted.
type MetadataWriter interface {
	ExistsBy(ctx context.Context, q ExistsQuery) (bool, error)

	// Create inserts one row. Returns ErrDuplicate when the row already exists.
	Create(ctx context.Context, params CreateParams) error
}

// MetadataReader is the read side used by the catalog API.
type MetadataReader interface {
	// ListByName returns every stored version of the named piece.
	ListByName(ctx context.Context, name string) ([]*piece.Metadata, error)

	// ListAll returns every stored row.
	ListAll(ctx context.Context) ([]*piece.Metadata, error)
}

// MetadataStore combines both sides; the database adapters implement it.
type MetadataStore interface {
	MetadataWriter
	MetadataReader
}

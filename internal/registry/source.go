// Package registry lists pieces from the active catalog source.
package registry

import (
	"context"
	"errors"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

// LocalRegistry is the registry URL sentinel selecting the local filesystem source.
const LocalRegistry = "local"

// ErrPieceNotFound is returned when a source has no piece by the requested name.
var ErrPieceNotFound = errors.New("piece not found")

// VersionMap maps a version string to an empty object, the wire shape of
// the versions endpoint.
type VersionMap map[string]struct{}

// Versions returns the map keys sorted by semver precedence.
func (v VersionMap) Versions() []string {
	out := make([]string, 0, len(v))
	for version := range v {
		out = append(out, version)
	}
	piece.SortVersions(out)
	return out
}

// Source is a piece catalog. The variant is chosen once at startup.
type Source interface {
	// List returns a summary of every available piece.
	List(ctx context.Context) ([]piece.Summary, error)
	// ListVersions returns every available version of the named piece.
	ListVersions(ctx context.Context, name string) (VersionMap, error)
	// Fetch returns the full metadata of one version. An empty version means latest.
	Fetch(ctx context.Context, name, version string) (*piece.Metadata, error)
	// IsLocal reports whether pieces come from the local filesystem.
	IsLocal() bool
}

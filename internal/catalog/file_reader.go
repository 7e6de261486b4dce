package catalog

import (
	"context"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

// DevPieceFinder lists locally built pieces after the developer filter.
type DevPieceFinder interface {
	FindDevPieces(ctx context.Context) ([]piece.Metadata, error)
}

// FileReader serves the catalog straight from the filesystem, for
// deployments that load pieces from files instead of the database.
type FileReader struct {
	finder DevPieceFinder
}

func NewFileReader(finder DevPieceFinder) *FileReader {
	return &FileReader{finder: finder}
}

func (r *FileReader) ListAll(ctx context.Context) ([]*piece.Metadata, error) {
	pieces, err := r.finder.FindDevPieces(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*piece.Metadata, 0, len(pieces))
	for i := range pieces {
		m := pieces[i]
		m.PieceType = piece.PieceTypeOfficial
		m.PackageType = piece.PackageTypeArchive
		out = append(out, &m)
	}
	return out, nil
}

func (r *FileReader) ListByName(ctx context.Context, name string) ([]*piece.Metadata, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*piece.Metadata
	for _, m := range all {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out, nil
}

// Package catalog serves the piece registry API from stored metadata.
package catalog

import (
	"context"

	"github.com/aevon-lab/piecesync/internal/core/config"
	"github.com/aevon-lab/piecesync/internal/core/storage"
	"github.com/aevon-lab/piecesync/internal/filestore"
	"github.com/aevon-lab/piecesync/internal/reconcile"
	"github.com/gin-gonic/gin"
)

// Syncer runs sync passes on demand.
type Syncer interface {
	Sync(ctx context.Context) reconcile.Report
	Mode() config.SyncMode
}

type Service struct {
	reader  storage.MetadataReader
	syncer  Syncer
	files   filestore.Store
	release string
}

// NewService builds the catalog. release is the default used when a request
// carries no release parameter. files may be nil, in which case archive
// downloads report not found.
func NewService(reader storage.MetadataReader, syncer Syncer, files filestore.Store, release string) *Service {
	if reader == nil {
		panic("catalog: reader must not be nil")
	}
	if syncer == nil {
		panic("catalog: syncer must not be nil")
	}
	return &Service{
		reader:  reader,
		syncer:  syncer,
		files:   files,
		release: release,
	}
}

// RegisterRoutes registers the catalog routes. Piece names may contain a
// slash, so the engine must route on the raw path (see server.New).
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/pieces", s.ListHandler)
	r.GET("/v1/pieces/versions", s.VersionsHandler)
	r.GET("/v1/pieces/:name", s.GetHandler)
	r.GET("/v1/pieces/:name/archive", s.ArchiveHandler)
	r.POST("/v1/pieces/sync", s.SyncHandler)
}

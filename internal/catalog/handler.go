package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aevon-lab/piecesync/internal/core/config"
	httperr "github.com/aevon-lab/piecesync/internal/core/errors"
	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/aevon-lab/piecesync/internal/core/storage"
	"github.com/aevon-lab/piecesync/internal/filestore"
	"github.com/aevon-lab/piecesync/internal/reconcile"
	"github.com/gin-gonic/gin"
)

const (
	msgReadFailed      = "Failed to read piece catalog"
	msgPieceNotFound   = "Piece not found"
	msgArchiveNotFound = "Piece has no archive"
	msgNameRequired    = "Query parameter name is required"
	msgSyncDisabled    = "Piece sync is disabled"
)

// SyncResponse is the body returned by a manual sync trigger.
type SyncResponse struct {
	StartedAt  time.Time               `json:"startedAt"`
	FinishedAt time.Time               `json:"finishedAt"`
	Listed     int                     `json:"listed"`
	Synced     int                     `json:"synced"`
	Skipped    int                     `json:"skipped"`
	Failed     int                     `json:"failed"`
	Error      string                  `json:"error,omitempty"`
	Results    []reconcile.PieceResult `json:"results"`
}

// ListHandler returns the latest summary of every piece visible to the
// requested release. The edition parameter is accepted for wire
// compatibility; one database holds one edition.
func (s *Service) ListHandler(c *gin.Context) {
	rows, err := s.reader.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("[Catalog] Failed to list pieces", "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgReadFailed)
		return
	}

	c.JSON(http.StatusOK, storage.LatestSummaries(rows, s.releaseOf(c)))
}

// VersionsHandler returns {version: {}} for every stored version of the
// named piece that supports the requested release.
func (s *Service) VersionsHandler(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidRequestError, msgNameRequired)
		return
	}

	rows, err := s.reader.ListByName(c.Request.Context(), name)
	if err != nil {
		slog.Error("[Catalog] Failed to list piece versions", "name", name, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgReadFailed)
		return
	}
	if len(rows) == 0 {
		writeError(c, http.StatusNotFound, httperr.HttpPieceNotFoundError, msgPieceNotFound)
		return
	}

	versions := make(map[string]struct{})
	for _, v := range storage.SupportedVersions(rows, s.releaseOf(c)) {
		versions[v] = struct{}{}
	}
	c.JSON(http.StatusOK, versions)
}

// GetHandler returns the full metadata of one version, the newest when no
// version is given.
func (s *Service) GetHandler(c *gin.Context) {
	m, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m)
}

// ArchiveHandler streams the stored archive of an ARCHIVE piece.
func (s *Service) ArchiveHandler(c *gin.Context) {
	m, ok := s.lookup(c)
	if !ok {
		return
	}
	if m.ArchiveID == "" || s.files == nil {
		writeError(c, http.StatusNotFound, httperr.HttpArchiveNotFoundError, msgArchiveNotFound)
		return
	}

	data, err := s.files.Get(c.Request.Context(), m.ArchiveID)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			slog.Warn("[Catalog] Archive referenced by piece is missing", "name", m.Name, "version", m.Version, "archive_id", m.ArchiveID)
			writeError(c, http.StatusNotFound, httperr.HttpArchiveNotFoundError, msgArchiveNotFound)
			return
		}
		slog.Error("[Catalog] Failed to read archive", "archive_id", m.ArchiveID, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgReadFailed)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveFileName(m)))
	c.Data(http.StatusOK, "application/gzip", data)
}

// SyncHandler runs a sync pass and reports its outcome. Overlapping
// triggers share one pass.
func (s *Service) SyncHandler(c *gin.Context) {
	if s.syncer.Mode() == config.SyncModeNone {
		writeError(c, http.StatusConflict, httperr.HttpSyncDisabledError, msgSyncDisabled)
		return
	}

	report := s.syncer.Sync(c.Request.Context())
	resp := SyncResponse{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Listed:     report.Listed,
		Synced:     report.Count(reconcile.OutcomeSynced),
		Skipped:    report.Count(reconcile.OutcomeSkipped),
		Failed:     report.Count(reconcile.OutcomeFailed),
		Results:    report.Results,
	}
	if resp.Results == nil {
		resp.Results = []reconcile.PieceResult{}
	}
	if report.Err != nil {
		resp.Error = report.Err.Error()
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpSyncFailedError,
			Message:   resp.Error,
			Details:   resp,
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// lookup resolves :name and ?version, writing the error response itself.
func (s *Service) lookup(c *gin.Context) (*piece.Metadata, bool) {
	name := c.Param("name")
	rows, err := s.reader.ListByName(c.Request.Context(), name)
	if err != nil {
		slog.Error("[Catalog] Failed to read piece", "name", name, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgReadFailed)
		return nil, false
	}

	m, err := storage.PickVersion(rows, c.Query("version"))
	if err != nil {
		writeError(c, http.StatusNotFound, httperr.HttpPieceNotFoundError, msgPieceNotFound)
		return nil, false
	}
	return m, true
}

func (s *Service) releaseOf(c *gin.Context) string {
	if release := c.Query("release"); release != "" {
		return release
	}
	return s.release
}

func archiveFileName(m *piece.Metadata) string {
	base := m.Name
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	return fmt.Sprintf("%s-%s.tgz", base, m.Version)
}

func writeError(c *gin.Context, status int, errorType, message string) {
	c.JSON(status, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
	})
}

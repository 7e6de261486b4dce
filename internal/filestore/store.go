// Package filestore holds uploaded files such as piece archives.
package filestore

import (
	"context"
	"errors"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

// ErrNotFound is returned when no file exists for an id.
var ErrNotFound = errors.New("file not found")

// SaveRequest describes one file to store.
type SaveRequest struct {
	Data        []byte
	Size        int64
	Type        piece.FileType
	Compression piece.Compression
	FileName    string
}

// Store is the file-storage backend.
type Store interface {
	// Save persists data and returns a handle whose ID addresses it later.
	Save(ctx context.Context, req SaveRequest) (*piece.File, error)
	// Get returns the data stored under id.
	Get(ctx context.Context, id string) ([]byte, error)
}

package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/google/uuid"
)

// FileSystemStore keeps files under baseDir as <id>.blob.
type FileSystemStore struct {
	baseDir string
}

// NewFileSystemStore creates the base directory if needed.
func NewFileSystemStore(baseDir string) (*FileSystemStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure file dir: %w", err)
	}
	return &FileSystemStore{baseDir: baseDir}, nil
}

func (s *FileSystemStore) Save(ctx context.Context, req SaveRequest) (*piece.File, error) {
	id := uuid.New().String()
	path := s.path(id)

	// Write to temp, then rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, req.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to commit file: %w", err)
	}

	return &piece.File{
		ID:          id,
		FileName:    req.FileName,
		Type:        req.Type,
		Compression: req.Compression,
		Size:        sizeOf(req),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *FileSystemStore) Get(ctx context.Context, id string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid file id %q: %w", id, err)
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *FileSystemStore) path(id string) string {
	return filepath.Join(s.baseDir, id+".blob")
}

func sizeOf(req SaveRequest) int64 {
	if req.Size > 0 {
		return req.Size
	}
	return int64(len(req.Data))
}

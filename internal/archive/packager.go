// Package archive turns a local piece build directory into a stored archive.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/aevon-lab/piecesync/internal/filestore"
)

// DefaultCommand produces a tarball and a JSON manifest on stdout.
// The packager appends the destination flag and directory.
const DefaultCommand = "npm pack --json"

const destinationFlag = "--pack-destination"

// Packager invokes the packaging tool and uploads its output.
type Packager struct {
	runner  CommandRunner
	files   filestore.Store
	command []string
	tempDir string
}

// NewPackager builds a packager. An empty command uses DefaultCommand; an
// empty tempDir uses the OS temp directory.
func NewPackager(runner CommandRunner, files filestore.Store, command, tempDir string) *Packager {
	if runner == nil {
		runner = ExecRunner{}
	}
	if files == nil {
		panic("archive: file store must not be nil")
	}
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	return &Packager{
		runner:  runner,
		files:   files,
		command: strings.Fields(command),
		tempDir: tempDir,
	}
}

// manifestEntry is one element of the tool's JSON output.
type manifestEntry struct {
	Filename string `json:"filename"`
}

// Create packages m.DirectoryPath and stores the archive.
// It never fails the caller: a missing directory, a tool failure, a read
// failure or an upload failure is logged and yields nil.
func (p *Packager) Create(ctx context.Context, m *piece.Metadata) *piece.File {
	if m.DirectoryPath == "" {
		slog.Info("[Archive] Piece has no directory path, skipping archive",
			"name", m.Name,
			"version", m.Version)
		return nil
	}

	file, err := p.create(ctx, m)
	if err != nil {
		slog.Error("[Archive] Failed to create piece archive",
			"name", m.Name,
			"version", m.Version,
			"directory", m.DirectoryPath,
			"error", err)
		return nil
	}

	slog.Info("[Archive] Stored piece archive",
		"name", m.Name,
		"version", m.Version,
		"file_id", file.ID,
		"size", file.Size)
	return file
}

func (p *Packager) create(ctx context.Context, m *piece.Metadata) (*piece.File, error) {
	dest, err := os.MkdirTemp(p.tempDir, "piece-archive-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dest) //nolint:errcheck

	archivePath, err := p.pack(ctx, m.DirectoryPath, dest)
	if err != nil {
		return nil, err
	}
	// Best-effort cleanup; the error is ignored.
	defer os.Remove(archivePath) //nolint:errcheck

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	file, err := p.files.Save(ctx, filestore.SaveRequest{
		Data:        data,
		Size:        int64(len(data)),
		Type:        piece.FileTypePackageArchive,
		Compression: piece.CompressionNone,
		FileName:    filepath.Base(archivePath),
	})
	if err != nil {
		return nil, fmt.Errorf("upload archive: %w", err)
	}
	return file, nil
}

// pack runs the tool in dir and returns the path of the produced archive.
func (p *Packager) pack(ctx context.Context, dir, dest string) (string, error) {
	name := p.command[0]
	args := append(append([]string{}, p.command[1:]...), destinationFlag, dest)

	stdout, stderr, err := p.runner.Run(ctx, dir, name, args...)
	if err != nil {
		return "", fmt.Errorf("run %s: %w (stderr: %s)", name, err, strings.TrimSpace(string(stderr)))
	}

	filename, err := parseManifest(stdout)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	return filepath.Join(dest, filename), nil
}

// parseManifest accepts either a JSON array of entries or a single entry
// and returns the first archive filename.
func parseManifest(out []byte) (string, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return "", errors.New("packaging tool produced no manifest")
	}

	var entries []manifestEntry
	if out[0] == '{' {
		var single manifestEntry
		if err := json.Unmarshal(out, &single); err != nil {
			return "", fmt.Errorf("parse manifest: %w", err)
		}
		entries = append(entries, single)
	} else if err := json.Unmarshal(out, &entries); err != nil {
		return "", fmt.Errorf("parse manifest: %w", err)
	}

	if len(entries) == 0 || entries[0].Filename == "" {
		return "", errors.New("manifest names no archive file")
	}
	return entries[0].Filename, nil
}

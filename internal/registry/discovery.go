package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/aevon-lab/piecesync/internal/core/piece"
	"gopkg.in/yaml.v3"
)

// Manifest file names looked up in each piece directory, in precedence order.
var manifestNames = []string{"piece.yaml", "piece.yml", "piece.json"}

// FileSystemDiscoverer scans root/<piece-dir>/ for a piece manifest.
// The directory holding the manifest is the piece's build output directory.
type FileSystemDiscoverer struct {
	root      string
	release   string
	devPieces map[string]bool
}

// NewFileSystemDiscoverer builds a discoverer. Pieces whose supported-release
// bounds exclude release are skipped. devPieces only affects FindDevPieces.
func NewFileSystemDiscoverer(root, release string, devPieces []string) *FileSystemDiscoverer {
	d := &FileSystemDiscoverer{root: root, release: release}
	if len(devPieces) > 0 {
		d.devPieces = make(map[string]bool, len(devPieces))
		for _, name := range devPieces {
			d.devPieces[name] = true
		}
	}
	return d
}

// FindAllPieces returns every discovered piece regardless of the developer filter.
func (d *FileSystemDiscoverer) FindAllPieces(ctx context.Context) ([]piece.Metadata, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("[Discovery] Pieces directory does not exist", "path", d.root)
			return []piece.Metadata{}, nil
		}
		return nil, fmt.Errorf("read pieces directory: %w", err)
	}

	byName := make(map[string]piece.Metadata)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(d.root, entry.Name())
		m, ok, err := loadManifest(dir)
		if err != nil {
			slog.Warn("[Discovery] Skipping piece with invalid manifest", "directory", dir, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if !piece.SupportsRelease(m.MinimumSupportedRelease, m.MaximumSupportedRelease, d.release) {
			slog.Debug("[Discovery] Piece does not support release",
				"name", m.Name, "version", m.Version, "release", d.release)
			continue
		}

		if prev, dup := byName[m.Name]; dup {
			slog.Warn("[Discovery] Duplicate piece name - keeping newer version",
				"name", m.Name, "versions", []string{prev.Version, m.Version})
			if !piece.IsNewer(m.Version, prev.Version) {
				continue
			}
		}
		byName[m.Name] = *m
	}

	out := make([]piece.Metadata, 0, len(byName))
	for _, m := range byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindDevPieces applies the developer filter on top of FindAllPieces.
// With no filter configured it returns every piece.
func (d *FileSystemDiscoverer) FindDevPieces(ctx context.Context) ([]piece.Metadata, error) {
	all, err := d.FindAllPieces(ctx)
	if err != nil || d.devPieces == nil {
		return all, err
	}
	out := all[:0]
	for _, m := range all {
		if d.devPieces[m.Name] {
			out = append(out, m)
		}
	}
	return out, nil
}

// loadManifest reads the first manifest present in dir.
// ok is false when dir holds no manifest.
func loadManifest(dir string) (*piece.Metadata, bool, error) {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, false, err
		}

		var m piece.Metadata
		if filepath.Ext(name) == ".json" {
			err = json.Unmarshal(content, &m)
		} else {
			err = yaml.Unmarshal(content, &m)
		}
		if err != nil {
			return nil, false, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := m.Validate(); err != nil {
			return nil, false, fmt.Errorf("%s: %w", name, err)
		}
		m.DirectoryPath = dir
		return &m, true, nil
	}
	return nil, false, nil
}

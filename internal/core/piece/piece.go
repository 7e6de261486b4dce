package piece

import (
	"fmt"
	"time"
)

// PieceType classifies where a piece comes from.
type PieceType string

const (
	PieceTypeOfficial PieceType = "OFFICIAL"
	PieceTypeCustom   PieceType = "CUSTOM"
)

// PackageType classifies how a piece is distributed.
// REGISTRY pieces are installed by name from a package registry;
// ARCHIVE pieces ship as an uploaded archive file.
type PackageType string

const (
	PackageTypeRegistry PackageType = "REGISTRY"
	PackageTypeArchive  PackageType = "ARCHIVE"
)

// Summary is the lightweight listing shape of a piece.
// It is produced by listing a registry source and never persisted directly.
type Summary struct {
	Name                    string      `json:"name"`
	Version                 string      `json:"version"`
	DisplayName             string      `json:"displayName"`
	Description             string      `json:"description,omitempty"`
	LogoURL                 string      `json:"logoUrl,omitempty"`
	Authors                 []string    `json:"authors,omitempty"`
	Categories              []string    `json:"categories,omitempty"`
	MinimumSupportedRelease string      `json:"minimumSupportedRelease,omitempty"`
	MaximumSupportedRelease string      `json:"maximumSupportedRelease,omitempty"`
	Actions                 int         `json:"actions"`
	Triggers                int         `json:"triggers"`
	PieceType               PieceType   `json:"pieceType"`
	PackageType             PackageType `json:"packageType"`
	ProjectUsage            int         `json:"projectUsage"`
}

// Metadata is the full description of one piece version.
// Actions, triggers, auth and i18n are kept as opaque documents; only their
// key sets matter to the sync path.
type Metadata struct {
	Name                    string         `json:"name" yaml:"name"`
	Version                 string         `json:"version" yaml:"version"`
	DisplayName             string         `json:"displayName" yaml:"displayName"`
	Description             string         `json:"description,omitempty" yaml:"description"`
	LogoURL                 string         `json:"logoUrl,omitempty" yaml:"logoUrl"`
	Authors                 []string       `json:"authors,omitempty" yaml:"authors"`
	Categories              []string       `json:"categories,omitempty" yaml:"categories"`
	MinimumSupportedRelease string         `json:"minimumSupportedRelease,omitempty" yaml:"minimumSupportedRelease"`
	MaximumSupportedRelease string         `json:"maximumSupportedRelease,omitempty" yaml:"maximumSupportedRelease"`
	Actions                 map[string]any `json:"actions" yaml:"actions"`
	Triggers                map[string]any `json:"triggers" yaml:"triggers"`
	Auth                    any            `json:"auth,omitempty" yaml:"auth"`
	I18n                    map[string]any `json:"i18n,omitempty" yaml:"i18n"`
	PieceType               PieceType      `json:"pieceType,omitempty" yaml:"-"`
	PackageType             PackageType    `json:"packageType,omitempty" yaml:"-"`

	// ArchiveID references the stored archive file for ARCHIVE pieces.
	ArchiveID string `json:"archiveId,omitempty" yaml:"-"`

	// DirectoryPath is the build output directory of a locally discovered piece.
	DirectoryPath string `json:"-" yaml:"-"`
}

// Validate checks the fields every stored piece needs.
func (m *Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if _, err := ParseVersion(m.Version); err != nil {
		return fmt.Errorf("invalid version %q: %w", m.Version, err)
	}
	return nil
}

// Summary derives the listing shape. Action and trigger counts are the
// number of keys in the respective maps; usage counters start at zero.
func (m *Metadata) Summary() Summary {
	return Summary{
		Name:                    m.Name,
		Version:                 m.Version,
		DisplayName:             m.DisplayName,
		Description:             m.Description,
		LogoURL:                 m.LogoURL,
		Authors:                 m.Authors,
		Categories:              m.Categories,
		MinimumSupportedRelease: m.MinimumSupportedRelease,
		MaximumSupportedRelease: m.MaximumSupportedRelease,
		Actions:                 len(m.Actions),
		Triggers:                len(m.Triggers),
		PieceType:               m.PieceType,
		PackageType:             m.PackageType,
	}
}

// FileType tags stored files by purpose.
type FileType string

const FileTypePackageArchive FileType = "PACKAGE_ARCHIVE"

// Compression describes how stored file data is encoded.
type Compression string

const (
	CompressionNone Compression = "NONE"
	CompressionGzip Compression = "GZIP"
)

// File is a handle to data held by the file-storage backend.
type File struct {
	ID          string      `json:"id"`
	FileName    string      `json:"fileName"`
	Type        FileType    `json:"type"`
	Compression Compression `json:"compression"`
	Size        int64       `json:"size"`
	CreatedAt   time.Time   `json:"createdAt"`
}

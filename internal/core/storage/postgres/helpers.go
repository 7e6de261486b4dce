package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

// marshalMetadata encodes the full metadata document stored in the metadata column.
// Classification and archive fields live in their own columns and are
// restored by scanMetadataRow.
func marshalMetadata(m *piece.Metadata) ([]byte, error) {
	doc := *m
	doc.PieceType = ""
	doc.PackageType = ""
	doc.ArchiveID = ""
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanMetadataRow scans (metadata, piece_type, package_type, archive_id).
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanMetadataRow(row scanner) (*piece.Metadata, error) {
	var (
		doc         []byte
		pieceType   string
		packageType string
		archiveID   sql.NullString
	)
	if err := row.Scan(&doc, &pieceType, &packageType, &archiveID); err != nil {
		return nil, fmt.Errorf("failed to scan piece metadata row: %w", err)
	}

	var m piece.Metadata
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	m.PieceType = piece.PieceType(pieceType)
	m.PackageType = piece.PackageType(packageType)
	m.ArchiveID = archiveID.String
	return &m, nil
}

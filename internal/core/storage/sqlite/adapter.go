package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/aevon-lab/piecesync/internal/core/storage"

	_ "modernc.org/sqlite"
)

const (
	querySchema = `
	CREATE TABLE IF NOT EXISTS piece_metadata (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		piece_type TEXT NOT NULL,
		package_type TEXT NOT NULL,
		archive_id TEXT,
		minimum_supported_release TEXT NOT NULL DEFAULT '',
		maximum_supported_release TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (name, version, piece_type, package_type)
	);`

	queryInsertMetadata = `
		INSERT INTO piece_metadata (
			name, version, display_name, piece_type, package_type, archive_id,
			minimum_supported_release, maximum_supported_release, metadata, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, version, piece_type, package_type) DO NOTHING`

	queryExistsBy = `
		SELECT EXISTS (
			SELECT 1 FROM piece_metadata
			WHERE name = ? AND version = ? AND piece_type = ?
		)`

	queryExistsByPackageType = `
		SELECT EXISTS (
			SELECT 1 FROM piece_metadata
			WHERE name = ? AND version = ? AND piece_type = ? AND package_type = ?
		)`

	queryListByName = `
		SELECT metadata, piece_type, package_type, archive_id
		FROM piece_metadata WHERE name = ? ORDER BY id ASC`

	queryListAll = `
		SELECT metadata, piece_type, package_type, archive_id
		FROM piece_metadata ORDER BY name ASC, id ASC`
)

// Adapter implements storage.MetadataStore on an embedded SQLite file.
// It backs local development databases.
type Adapter struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One writer at a time; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	slog.Info("[SQLite] Using local database", "path", path)
	return db, nil
}

// NewAdapter creates the schema if missing and returns the adapter.
func NewAdapter(db *sql.DB) (*Adapter, error) {
	a := &Adapter{db: db}
	if _, err := db.ExecContext(context.Background(), querySchema); err != nil {
		return nil, fmt.Errorf("failed to create piece_metadata table: %w", err)
	}
	return a, nil
}

func (a *Adapter) ExistsBy(ctx context.Context, q storage.ExistsQuery) (bool, error) {
	var (
		exists bool
		err    error
	)
	if q.PackageType != nil {
		err = a.db.QueryRowContext(ctx, queryExistsByPackageType, q.Name, q.Version, string(q.PieceType), string(*q.PackageType)).Scan(&exists)
	} else {
		err = a.db.QueryRowContext(ctx, queryExistsBy, q.Name, q.Version, string(q.PieceType)).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check piece existence: %w", err)
	}
	return exists, nil
}

func (a *Adapter) Create(ctx context.Context, params storage.CreateParams) error {
	m := params.Metadata
	doc := *m
	doc.PieceType, doc.PackageType, doc.ArchiveID = "", "", ""
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var archiveID sql.NullString
	if m.ArchiveID != "" {
		archiveID = sql.NullString{String: m.ArchiveID, Valid: true}
	}

	res, err := a.db.ExecContext(ctx, queryInsertMetadata,
		m.Name,
		m.Version,
		m.DisplayName,
		string(params.PieceType),
		string(params.PackageType),
		archiveID,
		m.MinimumSupportedRelease,
		m.MaximumSupportedRelease,
		string(data),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert piece metadata: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrDuplicate
	}
	return nil
}

func (a *Adapter) ListByName(ctx context.Context, name string) ([]*piece.Metadata, error) {
	rows, err := a.db.QueryContext(ctx, queryListByName, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query piece versions: %w", err)
	}
	return collectRows(rows)
}

func (a *Adapter) ListAll(ctx context.Context) ([]*piece.Metadata, error) {
	rows, err := a.db.QueryContext(ctx, queryListAll)
	if err != nil {
		return nil, fmt.Errorf("failed to query pieces: %w", err)
	}
	return collectRows(rows)
}

func collectRows(rows *sql.Rows) ([]*piece.Metadata, error) {
	defer rows.Close()

	var out []*piece.Metadata
	for rows.Next() {
		var (
			doc         string
			pieceType   string
			packageType string
			archiveID   sql.NullString
		)
		if err := rows.Scan(&doc, &pieceType, &packageType, &archiveID); err != nil {
			return nil, fmt.Errorf("failed to scan piece metadata row: %w", err)
		}
		var m piece.Metadata
		if err := json.Unmarshal([]byte(doc), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		m.PieceType = piece.PieceType(pieceType)
		m.PackageType = piece.PackageType(packageType)
		m.ArchiveID = archiveID.String
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating piece metadata: %w", err)
	}
	return out, nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

package postgres

// SQL queries for piece metadata storage

const (
	// queryInsertMetadata appends one piece version.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) when the
	// (name, version, piece_type, package_type) row already exists.
	queryInsertMetadata = `
		INSERT INTO piece_metadata (
			name, version, display_name, piece_type, package_type, archive_id,
			minimum_supported_release, maximum_supported_release, metadata, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name, version, piece_type, package_type) DO NOTHING
		RETURNING id
	`

	// queryExistsBy matches on piece_type only, so a row of either package
	// classification counts as present.
	queryExistsBy = `
		SELECT EXISTS (
			SELECT 1 FROM piece_metadata
			WHERE name = $1
			  AND version = $2
			  AND piece_type = $3
		)
	`

	queryExistsByPackageType = `
		SELECT EXISTS (
			SELECT 1 FROM piece_metadata
			WHERE name = $1
			  AND version = $2
			  AND piece_type = $3
			  AND package_type = $4
		)
	`

	queryListByName = `
		SELECT metadata, piece_type, package_type, archive_id
		FROM piece_metadata
		WHERE name = $1
		ORDER BY id ASC
	`

	queryListAll = `
		SELECT metadata, piece_type, package_type, archive_id
		FROM piece_metadata
		ORDER BY name ASC, id ASC
	`
)

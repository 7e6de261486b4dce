package storage

import (
	"sort"

	"github.com/aevon-lab/piecesync/internal/core/piece"
)

// LatestSummaries reduces stored rows to the newest version per piece name
// among the versions that support release. Output is ordered by name.
func LatestSummaries(rows []*piece.Metadata, release string) []piece.Summary {
	latest := make(map[string]*piece.Metadata)
	for _, m := range rows {
		if !piece.SupportsRelease(m.MinimumSupportedRelease, m.MaximumSupportedRelease, release) {
			continue
		}
		cur, ok := latest[m.Name]
		if !ok || piece.IsNewer(m.Version, cur.Version) {
			latest[m.Name] = m
		}
	}

	out := make([]piece.Summary, 0, len(latest))
	for _, m := range latest {
		out = append(out, m.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SupportedVersions returns the versions among rows that support release,
// de-duplicated and sorted ascending.
func SupportedVersions(rows []*piece.Metadata, release string) []string {
	seen := make(map[string]bool)
	var versions []string
	for _, m := range rows {
		if seen[m.Version] || !piece.SupportsRelease(m.MinimumSupportedRelease, m.MaximumSupportedRelease, release) {
			continue
		}
		seen[m.Version] = true
		versions = append(versions, m.Version)
	}
	piece.SortVersions(versions)
	return versions
}

// PickVersion returns the row matching version, or the newest row when
// version is empty.
func PickVersion(rows []*piece.Metadata, version string) (*piece.Metadata, error) {
	var picked *piece.Metadata
	for _, m := range rows {
		if version != "" {
			if m.Version == version {
				return m, nil
			}
			continue
		}
		if picked == nil || piece.IsNewer(m.Version, picked.Version) {
			picked = m
		}
	}
	if picked == nil {
		return nil, ErrNotFound
	}
	return picked, nil
}

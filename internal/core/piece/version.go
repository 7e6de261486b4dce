package piece

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a semantic version string.
func ParseVersion(v string) (*semver.Version, error) {
	return semver.NewVersion(v)
}

// SupportsRelease reports whether release falls inside [minimum, maximum].
// Empty bounds are open. An unparsable release or bound never excludes a piece.
func SupportsRelease(minimum, maximum, release string) bool {
	if release == "" {
		return true
	}
	rel, err := semver.NewVersion(release)
	if err != nil {
		return true
	}
	if minimum != "" {
		if lo, err := semver.NewVersion(minimum); err == nil && rel.LessThan(lo) {
			return false
		}
	}
	if maximum != "" {
		if hi, err := semver.NewVersion(maximum); err == nil && rel.GreaterThan(hi) {
			return false
		}
	}
	return true
}

// SortVersions orders version strings ascending by semver precedence.
// Unparsable versions fall back to lexical order.
func SortVersions(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		vA, errA := semver.NewVersion(versions[i])
		vB, errB := semver.NewVersion(versions[j])
		if errA != nil || errB != nil {
			return versions[i] < versions[j]
		}
		return vA.LessThan(vB)
	})
}

// IsNewer reports whether candidate has higher precedence than current.
func IsNewer(candidate, current string) bool {
	vA, errA := semver.NewVersion(candidate)
	vB, errB := semver.NewVersion(current)
	if errA != nil || errB != nil {
		return candidate > current
	}
	return vA.GreaterThan(vB)
}

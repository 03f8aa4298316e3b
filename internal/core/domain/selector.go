package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsLatest reports whether the selector asks for the newest version or build.
func IsLatest(selector string) bool {
	return selector == "" || strings.EqualFold(selector, LatestSelector)
}

// IsRange reports whether the selector is a version range rather than an exact version.
func IsRange(selector string) bool {
	if IsLatest(selector) {
		return false
	}
	if strings.ContainsAny(selector, "<>=~^*, |") {
		return true
	}
	return strings.Contains(selector, ".x") || strings.EqualFold(selector, "x")
}

// SelectVersion picks a candidate matching selector.
//
// candidates must be in the source's publish order; newestLast says which end
// holds the most recent entry. "latest" takes that end. A range takes the
// highest semver candidate inside the range. Anything else must match exactly.
func SelectVersion(candidates []string, selector string, newestLast bool) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	if IsLatest(selector) {
		if newestLast {
			return candidates[len(candidates)-1], true
		}
		return candidates[0], true
	}

	if !IsRange(selector) {
		for _, c := range candidates {
			if c == selector {
				return c, true
			}
		}
		return "", false
	}

	constraint, err := semver.NewConstraint(selector)
	if err != nil {
		return "", false
	}

	var (
		best    string
		bestVer *semver.Version
	)
	for _, c := range candidates {
		v, err := semver.NewVersion(c)
		if err != nil || !constraint.Check(v) {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = c, v
		}
	}
	return best, bestVer != nil
}

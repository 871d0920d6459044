package entities

import (
	"regexp"
	"strings"
)

// VersionPrefix is the prefix php-src uses for release tags.
const VersionPrefix = "php-"

// versionPattern splits "8.4.0RC1" into the numeric core and the pre-release suffix.
var versionPattern = regexp.MustCompile(`^(\d+(?:\.\d+){0,2})[-.]?([0-9A-Za-z.-]*)$`)

// Commit is the commit a Tag points at.
type Commit struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

// Tag is one entry of the remote tag listing.
// All fields take part in its identity, so Tag is usable as a map key.
type Tag struct {
	Name       string `json:"name"`
	TarballURL string `json:"tarball_url"`
	ZipballURL string `json:"zipball_url"`
	Commit     Commit `json:"commit"`
	NodeID     string `json:"node_id"`
}

// HasPrefix reports whether the tag name follows the given naming convention.
// An empty prefix matches every tag.
func (t Tag) HasPrefix(prefix string) bool {
	return strings.HasPrefix(t.Name, prefix)
}

// Version returns the tag name without the "php-" prefix.
func (t Tag) Version() string {
	return NormalizeVersion(t.Name)
}

// IsAlpha reports whether the tag is an alpha pre-release.
func (t Tag) IsAlpha() bool {
	return strings.Contains(t.Name, "alpha") || strings.Contains(t.Name, "ALPHA")
}

// IsBeta reports whether the tag is a beta pre-release.
func (t Tag) IsBeta() bool {
	return strings.Contains(t.Name, "beta") || strings.Contains(t.Name, "BETA")
}

// IsRC reports whether the tag is a release candidate.
func (t Tag) IsRC() bool {
	return strings.Contains(t.Name, "RC") || strings.Contains(t.Name, "rc")
}

// IsStable reports whether the tag is neither alpha, beta nor RC.
func (t Tag) IsStable() bool {
	return !t.IsAlpha() && !t.IsBeta() && !t.IsRC()
}

// Semver returns the version in the form expected by golang.org/x/mod/semver
// ("8.4.0RC1" becomes "v8.4.0-rc1"). Unparseable versions yield "".
func (t Tag) Semver() string {
	return ToSemver(t.Version())
}

// NormalizeVersion strips surrounding whitespace and the "php-" prefix.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), VersionPrefix)
}

// ToSemver converts a php version string into a semver string, or "" when it cannot.
// The pre-release suffix is lowercased so that alpha < beta < rc.
func ToSemver(version string) string {
	matches := versionPattern.FindStringSubmatch(version)
	if matches == nil {
		return ""
	}

	result := "v" + matches[1]
	if matches[2] != "" {
		result += "-" + strings.ToLower(matches[2])
	}
	return result
}

//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"crypto/sha1" //nolint:gosec // fake commit ids only
	"fmt"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

const tagsAPI = "https://api.github.com/repos/php/php-src"

// TagBuilder helps create test tags with a fluent interface.
type TagBuilder struct {
	*testkit.BaseBuilder
	name   string
	sha    string
	nodeID string
}

// NewTagBuilder creates a new tag builder with sensible defaults.
func NewTagBuilder() *TagBuilder {
	return &TagBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "php-8.4.11",
		sha:         "a42bbd3a6f4c1a9b9e2e3a0e1d8c4f6b7a2c9d10",
		nodeID:      "MDM6UmVmMTczOTY4MDQ6cmVmcy90YWdzL3BocC04LjQuMTE=",
	}
}

// WithName sets the tag name.
func (b *TagBuilder) WithName(name string) *TagBuilder {
	b.name = name
	return b
}

// WithVersion sets the tag name to the "php-" prefixed version.
func (b *TagBuilder) WithVersion(version string) *TagBuilder {
	b.name = entities.VersionPrefix + version
	return b
}

// WithSHA sets the commit SHA.
func (b *TagBuilder) WithSHA(sha string) *TagBuilder {
	b.sha = sha
	return b
}

// WithNodeID sets the node id.
func (b *TagBuilder) WithNodeID(nodeID string) *TagBuilder {
	b.nodeID = nodeID
	return b
}

// Build creates the tag (satisfies testkit.Builder interface).
func (b *TagBuilder) Build() interface{} {
	return b.BuildTag()
}

// BuildTag creates the tag with a concrete return type.
func (b *TagBuilder) BuildTag() entities.Tag {
	return entities.Tag{
		Name:       b.name,
		TarballURL: fmt.Sprintf("%s/tarball/refs/tags/%s", tagsAPI, b.name),
		ZipballURL: fmt.Sprintf("%s/zipball/refs/tags/%s", tagsAPI, b.name),
		Commit: entities.Commit{
			SHA: b.sha,
			URL: fmt.Sprintf("%s/commits/%s", tagsAPI, b.sha),
		},
		NodeID: b.nodeID,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *TagBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	fresh := NewTagBuilder()
	b.name = fresh.name
	b.sha = fresh.sha
	b.nodeID = fresh.nodeID
	return b
}

// Clone creates a deep copy of the TagBuilder.
func (b *TagBuilder) Clone() testkit.Builder {
	return &TagBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		sha:         b.sha,
		nodeID:      b.nodeID,
	}
}

// BuildVersions creates one tag per version, named with the "php-" prefix and
// kept in the given order. SHAs and node ids derive from the version.
func BuildVersions(versions ...string) []entities.Tag {
	tags := make([]entities.Tag, 0, len(versions))
	for _, version := range versions {
		tags = append(tags, NewTagBuilder().
			WithVersion(version).
			WithSHA(fmt.Sprintf("%x", sha1.Sum([]byte(version)))).
			WithNodeID("node-"+version).
			BuildTag())
	}
	return tags
}

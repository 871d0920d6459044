package entities

import (
	"sort"

	"golang.org/x/mod/semver"
)

// Catalog is the local mirror of every tag ever returned by the remote listing.
// Members are keyed by full identity; insertion order is irrelevant.
type Catalog struct {
	members map[Tag]struct{}
}

// NewCatalog creates a catalog holding the given tags.
func NewCatalog(tags ...Tag) *Catalog {
	catalog := &Catalog{members: make(map[Tag]struct{}, len(tags))}
	for _, tag := range tags {
		catalog.members[tag] = struct{}{}
	}
	return catalog
}

// Insert adds a tag and reports whether it was new.
// A false return means the exact same tag is already known.
func (c *Catalog) Insert(tag Tag) bool {
	if _, ok := c.members[tag]; ok {
		return false
	}
	c.members[tag] = struct{}{}
	return true
}

// Contains reports whether the tag is a member.
func (c *Catalog) Contains(tag Tag) bool {
	_, ok := c.members[tag]
	return ok
}

// Len returns the number of members.
func (c *Catalog) Len() int {
	return len(c.members)
}

// Retain drops every member whose name does not start with prefix
// and returns how many were removed.
func (c *Catalog) Retain(prefix string) int {
	removed := 0
	for tag := range c.members {
		if !tag.HasPrefix(prefix) {
			delete(c.members, tag)
			removed++
		}
	}
	return removed
}

// Find returns the member whose version matches, if any.
func (c *Catalog) Find(version string) (Tag, bool) {
	version = NormalizeVersion(version)
	for tag := range c.members {
		if tag.Version() == version {
			return tag, true
		}
	}
	return Tag{}, false
}

// Equal reports whether both catalogs hold the same set of tags.
func (c *Catalog) Equal(other *Catalog) bool {
	if other == nil || c.Len() != other.Len() {
		return false
	}
	for tag := range c.members {
		if !other.Contains(tag) {
			return false
		}
	}
	return true
}

// Tags returns the members newest first.
// Tags without a parseable version go last, ordered by name.
func (c *Catalog) Tags() []Tag {
	tags := make([]Tag, 0, len(c.members))
	for tag := range c.members {
		tags = append(tags, tag)
	}

	sort.Slice(tags, func(i, j int) bool {
		return newerThan(tags[i], tags[j])
	})
	return tags
}

func newerThan(a, b Tag) bool {
	va, vb := a.Semver(), b.Semver()
	validA, validB := semver.IsValid(va), semver.IsValid(vb)

	switch {
	case validA && !validB:
		return true
	case !validA && validB:
		return false
	case validA && validB:
		if cmp := semver.Compare(va, vb); cmp != 0 {
			return cmp > 0
		}
	}

	if a.Name != b.Name {
		return a.Name > b.Name
	}
	if a.Commit.SHA != b.Commit.SHA {
		return a.Commit.SHA < b.Commit.SHA
	}
	return a.NodeID < b.NodeID
}

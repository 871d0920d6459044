package extract

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// SanitizeEntryPath maps an archive entry name to a path below destination.
//
// Backslashes are treated as separators and "." segments are dropped. When the
// first segment starts with stripPrefix it is removed: it is the synthetic
// top-level directory GitHub adds to tarballs. Absolute names and ".."
// segments are rejected with entities.ErrPathViolation, and so is any result
// that does not stay below destination. An entry that maps onto destination
// itself returns destination.
func SanitizeEntryPath(name, destination, stripPrefix string) (string, error) {
	rel, err := sanitizeRelative(name, stripPrefix)
	if err != nil {
		return "", err
	}

	root := filepath.Clean(destination)
	resolved := filepath.Join(root, rel)
	if !within(root, resolved) {
		return "", violation(name, "resolves outside the destination")
	}
	return resolved, nil
}

func sanitizeRelative(name, stripPrefix string) (string, error) {
	normalized := strings.ReplaceAll(name, `\`, "/")
	if normalized == "" {
		return "", violation(name, "empty name")
	}
	if strings.HasPrefix(normalized, "/") || filepath.IsAbs(normalized) {
		return "", violation(name, "absolute path")
	}

	segments := strings.Split(normalized, "/")
	kept := make([]string, 0, len(segments))
	first := true
	for _, segment := range segments {
		switch {
		case segment == "" || segment == ".":
			continue
		case segment == "..":
			return "", violation(name, "parent directory segment")
		case first && stripPrefix != "" && strings.HasPrefix(segment, stripPrefix):
			first = false
			continue
		}
		first = false
		kept = append(kept, segment)
	}

	return filepath.Join(kept...), nil
}

// within reports whether path is root or below it. Both must be clean.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func violation(name, reason string) error {
	return entities.NewOperationError("extract", name, entities.ErrPathViolation, errors.New(reason))
}

package repositories

import "github.com/rios0rios0/phpmgr/internal/domain/entities"

// InstallationRepository manages the version trees under the work dir and
// the active-version link.
type InstallationRepository interface {
	// EnsureLayout creates the work dir and its archives directory.
	EnsureLayout() error
	Get(version string) entities.Installation
	// List returns every version with an extracted source tree, newest-first.
	List() ([]entities.Installation, error)
	HasSource(installation entities.Installation) bool
	IsInstalled(installation entities.Installation) bool
	IsActive(installation entities.Installation) bool
	// Active returns the version the bin link points at, or "" when unset.
	Active() (string, error)
	RemoveSource(installation entities.Installation) error
	RemoveDist(installation entities.Installation) error
	Link(installation entities.Installation) error
	Remove(installation entities.Installation) error
}

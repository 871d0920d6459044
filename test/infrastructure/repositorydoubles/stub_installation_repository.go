//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path/filepath"
	"sort"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// StubInstallationRepository tracks installations in memory.
// Sources and Built are keyed by version.
type StubInstallationRepository struct {
	WorkDir       string
	Sources       map[string]bool
	Built         map[string]bool
	ActiveVersion string

	LayoutErr error
	RemoveErr error
	LinkErr   error

	// spy
	RemovedSources []string
	RemovedDists   []string
	Removed        []string
	Linked         []string
}

var _ repositories.InstallationRepository = (*StubInstallationRepository)(nil)

// NewStubInstallationRepository creates an empty stub rooted at workDir.
func NewStubInstallationRepository(workDir string) *StubInstallationRepository {
	return &StubInstallationRepository{
		WorkDir: workDir,
		Sources: map[string]bool{},
		Built:   map[string]bool{},
	}
}

func (r *StubInstallationRepository) EnsureLayout() error { return r.LayoutErr }

func (r *StubInstallationRepository) Get(version string) entities.Installation {
	version = entities.NormalizeVersion(version)
	return entities.Installation{
		Version: version,
		Path:    filepath.Join(r.WorkDir, "archives", version),
	}
}

func (r *StubInstallationRepository) List() ([]entities.Installation, error) {
	versions := make([]string, 0, len(r.Sources))
	for version, present := range r.Sources {
		if present {
			versions = append(versions, version)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(versions)))

	installations := make([]entities.Installation, 0, len(versions))
	for _, version := range versions {
		installations = append(installations, r.Get(version))
	}
	return installations, nil
}

func (r *StubInstallationRepository) HasSource(installation entities.Installation) bool {
	return r.Sources[installation.Version]
}

func (r *StubInstallationRepository) IsInstalled(installation entities.Installation) bool {
	return r.Built[installation.Version]
}

func (r *StubInstallationRepository) IsActive(installation entities.Installation) bool {
	return r.ActiveVersion != "" && r.ActiveVersion == installation.Version
}

func (r *StubInstallationRepository) Active() (string, error) {
	return r.ActiveVersion, nil
}

func (r *StubInstallationRepository) RemoveSource(installation entities.Installation) error {
	r.RemovedSources = append(r.RemovedSources, installation.Version)
	if r.RemoveErr != nil {
		return r.RemoveErr
	}
	delete(r.Sources, installation.Version)
	delete(r.Built, installation.Version)
	return nil
}

func (r *StubInstallationRepository) RemoveDist(installation entities.Installation) error {
	r.RemovedDists = append(r.RemovedDists, installation.Version)
	if r.RemoveErr != nil {
		return r.RemoveErr
	}
	delete(r.Built, installation.Version)
	return nil
}

func (r *StubInstallationRepository) Link(installation entities.Installation) error {
	r.Linked = append(r.Linked, installation.Version)
	if r.LinkErr != nil {
		return r.LinkErr
	}
	r.ActiveVersion = installation.Version
	return nil
}

func (r *StubInstallationRepository) Remove(installation entities.Installation) error {
	r.Removed = append(r.Removed, installation.Version)
	if r.RemoveErr != nil {
		return r.RemoveErr
	}
	delete(r.Sources, installation.Version)
	delete(r.Built, installation.Version)
	if r.ActiveVersion == installation.Version {
		r.ActiveVersion = ""
	}
	return nil
}

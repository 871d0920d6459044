package installation

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

const (
	archivesDir = "archives"
	binLink     = "bin"
	dirMode     = 0o755
)

// BillyInstallationRepository lays out version trees and the bin link
// inside a work dir filesystem.
type BillyInstallationRepository struct {
	fs       billy.Filesystem
	settings *entities.Settings
}

// NewBillyInstallationRepository creates a repository over the work dir of
// settings on the host filesystem.
func NewBillyInstallationRepository(settings *entities.Settings) (repositories.InstallationRepository, error) {
	if settings.WorkDir == "" {
		return nil, errors.New("work dir is not set")
	}
	return NewBillyInstallationRepositoryWithFS(settings, osfs.New(settings.WorkDir)), nil
}

// NewBillyInstallationRepositoryWithFS creates a repository over fs, which
// must be rooted at the work dir.
func NewBillyInstallationRepositoryWithFS(
	settings *entities.Settings,
	fs billy.Filesystem,
) *BillyInstallationRepository {
	return &BillyInstallationRepository{fs: fs, settings: settings}
}

func (r *BillyInstallationRepository) EnsureLayout() error {
	if err := r.fs.MkdirAll(archivesDir, dirMode); err != nil {
		return fmt.Errorf("failed to create %q: %w", r.settings.ArchivesDir(), err)
	}
	return nil
}

func (r *BillyInstallationRepository) Get(version string) entities.Installation {
	return r.settings.Installation(version)
}

// List returns the versions with a buildconf script, newest-first.
func (r *BillyInstallationRepository) List() ([]entities.Installation, error) {
	infos, err := r.fs.ReadDir(archivesDir)
	if errors.Is(err, os.ErrNotExist) {
		return []entities.Installation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", r.settings.ArchivesDir(), err)
	}

	installations := make([]entities.Installation, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		installation := r.Get(info.Name())
		if r.HasSource(installation) {
			installations = append(installations, installation)
		}
	}

	sort.Slice(installations, func(i, j int) bool {
		a, b := entities.ToSemver(installations[i].Version), entities.ToSemver(installations[j].Version)
		if cmp := semver.Compare(a, b); cmp != 0 {
			return cmp > 0
		}
		return installations[i].Version > installations[j].Version
	})
	return installations, nil
}

func (r *BillyInstallationRepository) HasSource(installation entities.Installation) bool {
	return r.exists(path.Join(archivesDir, installation.Version, "buildconf"))
}

func (r *BillyInstallationRepository) IsInstalled(installation entities.Installation) bool {
	return r.exists(path.Join(archivesDir, installation.Version, "dist", "bin", "php"))
}

func (r *BillyInstallationRepository) IsActive(installation entities.Installation) bool {
	active, err := r.Active()
	return err == nil && active != "" && active == installation.Version
}

// Active reads the version out of the bin link target
// "archives/<version>/dist/bin".
func (r *BillyInstallationRepository) Active() (string, error) {
	target, err := r.fs.Readlink(binLink)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", r.settings.BinDir(), err)
	}

	// absolute targets come back relative to the work dir root
	segments := strings.Split(strings.TrimPrefix(filepath.ToSlash(target), "/"), "/")
	if len(segments) < 2 || segments[0] != archivesDir {
		logger.Warnf("Ignoring unmanaged link %q -> %q", r.settings.BinDir(), target)
		return "", nil
	}
	return segments[1], nil
}

func (r *BillyInstallationRepository) RemoveSource(installation entities.Installation) error {
	return r.removeAll(path.Join(archivesDir, installation.Version))
}

func (r *BillyInstallationRepository) RemoveDist(installation entities.Installation) error {
	return r.removeAll(path.Join(archivesDir, installation.Version, "dist"))
}

// Link points bin at the installation. The new link is created beside the
// old one and renamed over it, so bin is never missing.
func (r *BillyInstallationRepository) Link(installation entities.Installation) error {
	target := path.Join(archivesDir, installation.Version, "dist", "bin")
	staging := binLink + ".new"

	_ = r.fs.Remove(staging)
	if err := r.fs.Symlink(target, staging); err != nil {
		return fmt.Errorf("failed to link %q: %w", r.settings.BinDir(), err)
	}
	if err := r.fs.Rename(staging, binLink); err != nil {
		_ = r.fs.Remove(staging)
		return fmt.Errorf("failed to link %q: %w", r.settings.BinDir(), err)
	}
	return nil
}

// Remove deletes the version tree and the bin link when it pointed at it.
func (r *BillyInstallationRepository) Remove(installation entities.Installation) error {
	if r.IsActive(installation) {
		if err := r.fs.Remove(binLink); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to unlink %q: %w", r.settings.BinDir(), err)
		}
	}
	return r.RemoveSource(installation)
}

func (r *BillyInstallationRepository) exists(name string) bool {
	_, err := r.fs.Stat(name)
	return err == nil
}

func (r *BillyInstallationRepository) removeAll(name string) error {
	if err := util.RemoveAll(r.fs, name); err != nil {
		return fmt.Errorf("failed to remove %q: %w", filepath.Join(r.settings.WorkDir, name), err)
	}
	return nil
}

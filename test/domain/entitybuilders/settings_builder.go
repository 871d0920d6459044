//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path/filepath"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SettingsBuilder helps create test settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	workDir    string
	apiURL     string
	archiveURL string
	pageSize   int
}

// NewSettingsBuilder creates a new settings builder with the production defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		workDir:     filepath.Join("/tmp", entities.WorkDirName),
		apiURL:      "https://api.github.com/",
		archiveURL:  "https://api.github.com/repos/php/php-src/tarball/refs/tags/php-{version}",
		pageSize:    100,
	}
}

// WithWorkDir sets the work dir. It is used as-is, without normalization.
func (b *SettingsBuilder) WithWorkDir(workDir string) *SettingsBuilder {
	b.workDir = workDir
	return b
}

// WithAPIURL sets the GitHub API base URL.
func (b *SettingsBuilder) WithAPIURL(apiURL string) *SettingsBuilder {
	b.apiURL = apiURL
	return b
}

// WithArchiveURL sets the archive URL template.
func (b *SettingsBuilder) WithArchiveURL(archiveURL string) *SettingsBuilder {
	b.archiveURL = archiveURL
	return b
}

// WithPageSize sets the listing page size.
func (b *SettingsBuilder) WithPageSize(pageSize int) *SettingsBuilder {
	b.pageSize = pageSize
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	return &entities.Settings{
		WorkDir:        b.workDir,
		APIURL:         b.apiURL,
		Owner:          "php",
		Repository:     "php-src",
		TagPrefix:      entities.VersionPrefix,
		ArchiveURL:     b.archiveURL,
		ArchivePrefix:  "php-php-src",
		PageSize:       b.pageSize,
		MinArchiveSize: 1024,
		UserAgent:      "phpmgr-test",
		ConfigureFlags: []string{"--with-curl"},
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	fresh := NewSettingsBuilder()
	b.workDir = fresh.workDir
	b.apiURL = fresh.apiURL
	b.archiveURL = fresh.archiveURL
	b.pageSize = fresh.pageSize
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		workDir:     b.workDir,
		apiURL:      b.apiURL,
		archiveURL:  b.archiveURL,
		pageSize:    b.pageSize,
	}
}

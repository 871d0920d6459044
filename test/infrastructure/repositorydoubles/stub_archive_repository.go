//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"bytes"
	"context"
	"io"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// StubArchiveRepository serves the same archive bytes for every version.
type StubArchiveRepository struct {
	Archive []byte
	OpenErr error

	OpenedVersions []string
}

var _ repositories.ArchiveRepository = (*StubArchiveRepository)(nil)

func (r *StubArchiveRepository) Open(_ context.Context, version string) (*entities.DownloadSession, error) {
	r.OpenedVersions = append(r.OpenedVersions, version)
	if r.OpenErr != nil {
		return nil, r.OpenErr
	}
	body := io.NopCloser(bytes.NewReader(r.Archive))
	return entities.NewDownloadSession("stub://"+version, body, int64(len(r.Archive))), nil
}

// SpyArchiveExtractor records extractions without touching the filesystem.
type SpyArchiveExtractor struct {
	Result     *entities.ExtractResult
	ExtractErr error

	Destinations []string
	Archives     [][]byte
	LastOptions  entities.ExtractOptions
}

var _ repositories.ArchiveExtractor = (*SpyArchiveExtractor)(nil)

func (e *SpyArchiveExtractor) Extract(
	_ context.Context,
	archive []byte,
	destination string,
	opts entities.ExtractOptions,
) (*entities.ExtractResult, error) {
	e.Destinations = append(e.Destinations, destination)
	e.Archives = append(e.Archives, archive)
	e.LastOptions = opts
	if e.ExtractErr != nil {
		return nil, e.ExtractErr
	}
	if e.Result != nil {
		return e.Result, nil
	}
	return &entities.ExtractResult{}, nil
}

// SpySourceBuilder records builds and php.ini setups.
type SpySourceBuilder struct {
	BuildErr error
	IniErr   error

	Built       []string
	IniVersions []string
	LastOptions entities.BuildOptions
	// OnBuild runs after a successful build, e.g. to mark a stub installation as built.
	OnBuild func(installation entities.Installation)
}

var _ repositories.SourceBuilder = (*SpySourceBuilder)(nil)

func (b *SpySourceBuilder) Build(
	_ context.Context,
	installation entities.Installation,
	opts entities.BuildOptions,
) error {
	b.Built = append(b.Built, installation.Version)
	b.LastOptions = opts
	if b.BuildErr != nil {
		return b.BuildErr
	}
	if b.OnBuild != nil {
		b.OnBuild(installation)
	}
	return nil
}

func (b *SpySourceBuilder) SetupIni(installation entities.Installation, _ bool) error {
	b.IniVersions = append(b.IniVersions, installation.Version)
	return b.IniErr
}

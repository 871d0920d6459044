package repositories

import (
	"context"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// ArchiveRepository opens a streaming download of the source archive of a version.
type ArchiveRepository interface {
	Open(ctx context.Context, version string) (*entities.DownloadSession, error)
}

// ArchiveExtractor unpacks a completed download into a destination directory.
type ArchiveExtractor interface {
	Extract(
		ctx context.Context,
		archive []byte,
		destination string,
		opts entities.ExtractOptions,
	) (*entities.ExtractResult, error)
}

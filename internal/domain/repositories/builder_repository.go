package repositories

import (
	"context"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// SourceBuilder compiles an extracted source tree into its dist directory.
type SourceBuilder interface {
	Build(ctx context.Context, installation entities.Installation, opts entities.BuildOptions) error
	SetupIni(installation entities.Installation, dev bool) error
}

package repositories

import (
	"context"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// TagRepository lists the tags of the remote source repository.
//
// Pages are 1-based and returned newest-first. When the remote has no data
// for the requested page, ListTags returns entities.ErrNoMorePages.
type TagRepository interface {
	ListTags(ctx context.Context, page int) ([]entities.Tag, error)
}

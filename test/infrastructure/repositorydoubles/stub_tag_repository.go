//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// StubTagRepository serves a fixed listing, one slice per 1-based page.
// Pages past the end return entities.ErrNoMorePages.
type StubTagRepository struct {
	Pages    [][]entities.Tag
	PageErrs map[int]error

	// spy: pages that were requested, in order
	RequestedPages []int
}

var _ repositories.TagRepository = (*StubTagRepository)(nil)

// NewStubTagRepository splits tags into pages of pageSize entries.
func NewStubTagRepository(pageSize int, tags ...entities.Tag) *StubTagRepository {
	stub := &StubTagRepository{}
	for start := 0; start < len(tags); start += pageSize {
		end := min(start+pageSize, len(tags))
		stub.Pages = append(stub.Pages, tags[start:end])
	}
	return stub
}

func (s *StubTagRepository) ListTags(_ context.Context, page int) ([]entities.Tag, error) {
	s.RequestedPages = append(s.RequestedPages, page)
	if err, ok := s.PageErrs[page]; ok {
		return nil, err
	}
	if page < 1 || page > len(s.Pages) {
		return nil, entities.ErrNoMorePages
	}
	return s.Pages[page-1], nil
}

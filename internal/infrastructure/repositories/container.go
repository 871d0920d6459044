package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Concrete repositories need the parsed settings, so only the factory is shared
	if err := container.Provide(NewRepositoryFactory); err != nil {
		return err
	}
	if err := container.Provide(func(factory *RepositoryFactory) domainRepos.Factory {
		return factory
	}); err != nil {
		return err
	}

	return nil
}

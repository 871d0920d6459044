//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/phpmgr/internal/domain/commands"
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// StubSync records its calls and returns the configured result.
type StubSync struct {
	Result *commands.SyncResult
	Err    error

	Calls    int
	Settings *entities.Settings
	Opts     commands.SyncOptions
}

var _ commands.Sync = (*StubSync)(nil)

func (s *StubSync) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.SyncOptions,
) (*commands.SyncResult, error) {
	s.Calls++
	s.Settings = settings
	s.Opts = opts
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Result == nil {
		return &commands.SyncResult{}, nil
	}
	return s.Result, nil
}

// StubInstall records its calls and installs into settings.
type StubInstall struct {
	Err error

	Calls    int
	Settings *entities.Settings
	Opts     commands.InstallOptions
}

var _ commands.Install = (*StubInstall)(nil)

func (s *StubInstall) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.InstallOptions,
) (*entities.Installation, error) {
	s.Calls++
	s.Settings = settings
	s.Opts = opts
	if s.Err != nil {
		return nil, s.Err
	}
	installation := settings.Installation(opts.Version)
	return &installation, nil
}

// StubList records its calls and returns the configured versions.
type StubList struct {
	Listed []commands.ListedVersion
	Err    error

	Calls    int
	Settings *entities.Settings
	Opts     commands.ListOptions
}

var _ commands.List = (*StubList)(nil)

func (s *StubList) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.ListOptions,
) ([]commands.ListedVersion, error) {
	s.Calls++
	s.Settings = settings
	s.Opts = opts
	return s.Listed, s.Err
}

// StubUse records the versions it was asked to activate.
type StubUse struct {
	Err error

	Versions []string
	Settings *entities.Settings
}

var _ commands.Use = (*StubUse)(nil)

func (s *StubUse) Execute(_ context.Context, settings *entities.Settings, version string) error {
	s.Versions = append(s.Versions, version)
	s.Settings = settings
	return s.Err
}

// StubRemove records its calls. Without confirmation it cancels like the
// real command.
type StubRemove struct {
	Err error

	Calls int
	Opts  commands.RemoveOptions
}

var _ commands.Remove = (*StubRemove)(nil)

func (s *StubRemove) Execute(_ context.Context, _ *entities.Settings, opts commands.RemoveOptions) error {
	s.Calls++
	s.Opts = opts
	if !opts.Confirmed {
		return entities.NewOperationError("remove", opts.Version, entities.ErrCanceled, nil)
	}
	return s.Err
}

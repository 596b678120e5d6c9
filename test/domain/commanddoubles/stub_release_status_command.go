//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// StubReleaseStatusCommand is a stub implementation of commands.ReleaseStatus.
type StubReleaseStatusCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Statuses         []entities.ProjectGroupReleaseStatus
	LastOpts         commands.ReleaseStatusOptions
}

var _ commands.ReleaseStatus = (*StubReleaseStatusCommand)(nil)

func (s *StubReleaseStatusCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.ReleaseStatusOptions,
) ([]entities.ProjectGroupReleaseStatus, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.Statuses, s.ExecuteErr
}

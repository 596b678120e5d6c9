//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// StubStaleUsageCommand is a stub implementation of commands.StaleUsage.
type StubStaleUsageCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Report           entities.StaleUsageReport
	LastSettings     *entities.Settings
	LastOpts         commands.StaleUsageOptions
}

var _ commands.StaleUsage = (*StubStaleUsageCommand)(nil)

func (s *StubStaleUsageCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.StaleUsageOptions,
) (entities.StaleUsageReport, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return entities.StaleUsageReport{}, s.ExecuteErr
	}
	return s.Report, nil
}

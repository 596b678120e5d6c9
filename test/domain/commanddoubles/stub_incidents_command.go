//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// StubIncidentsCommand is a stub implementation of commands.Incidents.
type StubIncidentsCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Summary          string
}

var _ commands.Incidents = (*StubIncidentsCommand)(nil)

func (s *StubIncidentsCommand) Execute(_ context.Context, _ *entities.Settings) (string, error) {
	s.ExecuteCallCount++
	return s.Summary, s.ExecuteErr
}

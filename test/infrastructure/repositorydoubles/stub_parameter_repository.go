//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/driftbot/internal/domain/repositories"
)

// StubParameterRepository implements repositories.ParameterRepository from a fixed map.
type StubParameterRepository struct {
	Values    map[string]string
	Requested []string
}

var _ repositories.ParameterRepository = (*StubParameterRepository)(nil)

func (s *StubParameterRepository) GetParameter(_ context.Context, name string) (string, error) {
	s.Requested = append(s.Requested, name)
	value, ok := s.Values[name]
	if !ok {
		return "", fmt.Errorf("parameter not found: %s", name)
	}
	return value, nil
}

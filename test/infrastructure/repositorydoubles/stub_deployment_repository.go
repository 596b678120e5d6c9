//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. They are hand-written, without a mock framework.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
)

// SpyDeploymentRepository implements repositories.DeploymentRepository as a configurable spy.
// It is safe for concurrent use, since usage lists are fetched in parallel.
type SpyDeploymentRepository struct {
	mu sync.Mutex

	// --- ListTemplates ---
	Templates        []entities.Template
	ListTemplatesErr error

	// --- ListUsage ---
	Usages    map[string][]entities.UsageRecord // usageRef -> records
	UsageErrs map[string]error                  // usageRef -> error
	// spy: refs that were requested
	RequestedUsageRefs []string

	// --- ListProjects ---
	ProjectGroups   []entities.ProjectGroup
	ListProjectsErr error
	RequestedGroups []entities.ProjectGroupRef

	// --- LatestRelease ---
	Releases         map[string]*entities.Release // project ID -> release
	LatestReleaseErr error

	// --- ReleaseProgression ---
	Progressions   map[string][]entities.PhaseProgress // release ID -> phases
	ProgressionErr error

	// --- GetProject ---
	Projects      map[string]entities.Project // id or slug -> project
	GetProjectErr error
}

var _ repositories.DeploymentRepository = (*SpyDeploymentRepository)(nil)

func (s *SpyDeploymentRepository) ListTemplates(_ context.Context) ([]entities.Template, error) {
	return s.Templates, s.ListTemplatesErr
}

func (s *SpyDeploymentRepository) ListUsage(_ context.Context, usageRef string) ([]entities.UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RequestedUsageRefs = append(s.RequestedUsageRefs, usageRef)
	if err, ok := s.UsageErrs[usageRef]; ok {
		return nil, err
	}

	// copy so callers cannot mutate the configured fixture
	records := make([]entities.UsageRecord, len(s.Usages[usageRef]))
	copy(records, s.Usages[usageRef])
	return records, nil
}

// UsageRefCount returns how many usage lists were requested.
func (s *SpyDeploymentRepository) UsageRefCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.RequestedUsageRefs)
}

func (s *SpyDeploymentRepository) ListProjects(
	_ context.Context,
	groups []entities.ProjectGroupRef,
) ([]entities.ProjectGroup, error) {
	s.RequestedGroups = append(s.RequestedGroups, groups...)
	return s.ProjectGroups, s.ListProjectsErr
}

func (s *SpyDeploymentRepository) LatestRelease(
	_ context.Context,
	project entities.Project,
) (*entities.Release, error) {
	if s.LatestReleaseErr != nil {
		return nil, s.LatestReleaseErr
	}
	return s.Releases[project.ID], nil
}

func (s *SpyDeploymentRepository) ReleaseProgression(
	_ context.Context,
	releaseID string,
) ([]entities.PhaseProgress, error) {
	if s.ProgressionErr != nil {
		return nil, s.ProgressionErr
	}
	return s.Progressions[releaseID], nil
}

func (s *SpyDeploymentRepository) GetProject(_ context.Context, idOrSlug string) (entities.Project, error) {
	if s.GetProjectErr != nil {
		return entities.Project{}, s.GetProjectErr
	}
	return s.Projects[idOrSlug], nil
}

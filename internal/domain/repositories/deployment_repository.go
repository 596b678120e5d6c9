package repositories

import (
	"context"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// DeploymentRepository reads from the deployment-tracking API. Every call is read-only.
type DeploymentRepository interface {
	// ListTemplates returns every step template of the configured space, in API order.
	ListTemplates(ctx context.Context) ([]entities.Template, error)

	// ListUsage returns the consumers of one template, given the template's UsageRef.
	ListUsage(ctx context.Context, usageRef string) ([]entities.UsageRecord, error)

	// ListProjects returns the projects of each group, skipping groups without projects.
	ListProjects(ctx context.Context, groups []entities.ProjectGroupRef) ([]entities.ProjectGroup, error)

	// LatestRelease returns the newest release of a project, or nil when it has none.
	LatestRelease(ctx context.Context, project entities.Project) (*entities.Release, error)

	// ReleaseProgression returns how far a release went through its lifecycle phases.
	ReleaseProgression(ctx context.Context, releaseID string) ([]entities.PhaseProgress, error)

	// GetProject looks a project up by ID or slug.
	GetProject(ctx context.Context, idOrSlug string) (entities.Project, error)
}

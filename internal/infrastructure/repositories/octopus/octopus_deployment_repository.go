package octopus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
	"golang.org/x/time/rate"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
	"github.com/rios0rios0/driftbot/internal/infrastructure/telemetry"
)

const apiKeyHeader = "X-Octopus-ApiKey"

// DeploymentRepository implements repositories.DeploymentRepository against the Octopus Deploy REST API.
type DeploymentRepository struct {
	baseURL    string
	webURL     string
	space      string
	apiKey     string
	latestBy   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDeploymentRepository creates a new Octopus client from the given settings.
func NewDeploymentRepository(settings entities.OctopusSettings) repositories.DeploymentRepository {
	repository := &DeploymentRepository{
		baseURL:  strings.TrimSuffix(settings.URL, "/"),
		webURL:   strings.TrimSuffix(settings.WebURL, "/") + "/",
		space:    settings.Space,
		apiKey:   settings.APIKey,
		latestBy: settings.LatestRelease,
		httpClient: &http.Client{
			Timeout: settings.Timeout,
		},
	}

	if settings.RequestsPerSecond > 0 {
		repository.limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), 1)
	}

	return repository
}

// ListTemplates returns every step template of the space.
func (r *DeploymentRepository) ListTemplates(ctx context.Context) ([]entities.Template, error) {
	endpoint := fmt.Sprintf("/api/%s/actiontemplates/All", r.space)

	resources, err := getItems[templateResource](ctx, r, endpoint)
	if err != nil {
		return nil, err
	}

	templates := make([]entities.Template, 0, len(resources))
	for _, resource := range resources {
		templates = append(templates, entities.Template{
			ID:        resource.ID,
			Name:      resource.Name,
			Version:   int(resource.Version),
			Community: resource.isCommunity(),
			UsageRef:  resource.Links.Usage,
		})
	}

	logger.Debugf("Listed %d step templates in %s", len(templates), r.space)
	return templates, nil
}

// ListUsage returns the projects consuming the template behind usageRef.
func (r *DeploymentRepository) ListUsage(ctx context.Context, usageRef string) ([]entities.UsageRecord, error) {
	if usageRef == "" {
		return nil, errors.New("template has no usage link")
	}

	resources, err := getItems[usageResource](ctx, r, usageRef)
	if err != nil {
		return nil, err
	}

	usages := make([]entities.UsageRecord, 0, len(resources))
	for _, resource := range resources {
		usages = append(usages, entities.UsageRecord{
			ProjectName: resource.ProjectName,
			Version:     int(resource.Version),
			TemplateID:  resource.ActionTemplateID,
		})
	}

	return usages, nil
}

// ListProjects returns the projects of each group, in configuration order.
func (r *DeploymentRepository) ListProjects(
	ctx context.Context,
	groups []entities.ProjectGroupRef,
) ([]entities.ProjectGroup, error) {
	var result []entities.ProjectGroup

	for _, group := range groups {
		endpoint := fmt.Sprintf("/api/projectgroups/ProjectGroups-%s/projects", url.PathEscape(group.ID))

		resources, err := getItems[projectResource](ctx, r, endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects of group %q: %w", group.Name, err)
		}

		logger.Debugf("Project group %s (%s) has %d projects", group.ID, group.Name, len(resources))
		if len(resources) == 0 {
			continue
		}

		projectGroup := entities.ProjectGroup{ID: group.ID, Name: group.Name}
		for _, resource := range resources {
			projectGroup.Projects = append(projectGroup.Projects, r.toProject(resource))
		}
		result = append(result, projectGroup)
	}

	return result, nil
}

// LatestRelease returns the newest release of a project, or nil when there is none.
func (r *DeploymentRepository) LatestRelease(
	ctx context.Context,
	project entities.Project,
) (*entities.Release, error) {
	endpoint := fmt.Sprintf("/api/projects/%s/releases", url.PathEscape(project.ID))

	resources, err := getItems[releaseResource](ctx, r, endpoint)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, nil //nolint:nilnil // no release is not an error
	}

	latest := pickLatestRelease(resources, r.latestBy)
	return &entities.Release{
		ID:        latest.ID,
		Version:   latest.Version,
		Assembled: latest.Assembled.Time,
		WebURL:    fmt.Sprintf("%sprojects/%s/releases/%s", r.webURL, project.Slug, latest.Version),
	}, nil
}

// ReleaseProgression returns the lifecycle phases of a release with their progress.
func (r *DeploymentRepository) ReleaseProgression(
	ctx context.Context,
	releaseID string,
) ([]entities.PhaseProgress, error) {
	endpoint := fmt.Sprintf("/api/releases/%s/progression", url.PathEscape(releaseID))

	var resource progressionResource
	if err := r.getObject(ctx, endpoint, &resource); err != nil {
		return nil, err
	}

	phases := make([]entities.PhaseProgress, 0, len(resource.Phases))
	for _, phase := range resource.Phases {
		phases = append(phases, entities.PhaseProgress{Name: phase.Name, Progress: phase.Progress})
	}
	return phases, nil
}

// GetProject looks a project up by its ID or slug.
func (r *DeploymentRepository) GetProject(ctx context.Context, idOrSlug string) (entities.Project, error) {
	endpoint := "/api/projects/" + url.PathEscape(idOrSlug)

	var resource projectResource
	if err := r.getObject(ctx, endpoint, &resource); err != nil {
		return entities.Project{}, err
	}
	return r.toProject(resource), nil
}

func (r *DeploymentRepository) toProject(resource projectResource) entities.Project {
	return entities.Project{
		ID:     resource.ID,
		Name:   resource.Name,
		Slug:   resource.Slug,
		WebURL: fmt.Sprintf("%sprojects/%s/overview", r.webURL, resource.Slug),
	}
}

// pickLatestRelease returns the first release of the page, which the API orders newest first.
// In highest_semver mode it returns the highest semantic version instead, unless some
// version on the page is not semver.
func pickLatestRelease(resources []releaseResource, mode string) releaseResource {
	latest := resources[0]
	if mode != entities.LatestReleaseHighestSemver {
		return latest
	}
	for _, resource := range resources {
		if !semver.IsValid(normalizeVersion(resource.Version)) {
			return resources[0]
		}
		if semver.Compare(normalizeVersion(resource.Version), normalizeVersion(latest.Version)) > 0 {
			latest = resource
		}
	}
	return latest
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// getItems fetches a list that is either a bare JSON array or an {"Items": [...]} envelope.
func getItems[T any](ctx context.Context, r *DeploymentRepository, endpoint string) ([]T, error) {
	body, err := r.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if unmarshalErr := json.Unmarshal(body, &items); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, unmarshalErr)
		}
		return items, nil
	}

	var envelope itemsEnvelope[T]
	if unmarshalErr := json.Unmarshal(body, &envelope); unmarshalErr != nil {
		if message := decodeError(body); message != "" {
			return nil, &entities.UpstreamError{API: entities.APIOctopus, Message: message}
		}
		return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, unmarshalErr)
	}
	if envelope.ErrorMessage != "" {
		return nil, &entities.UpstreamError{API: entities.APIOctopus, Message: envelope.ErrorMessage}
	}
	return envelope.Items, nil
}

func (r *DeploymentRepository) getObject(ctx context.Context, endpoint string, target any) error {
	body, err := r.doRequest(ctx, endpoint)
	if err != nil {
		return err
	}

	if message := decodeError(body); message != "" {
		return &entities.UpstreamError{API: entities.APIOctopus, Message: message}
	}
	if unmarshalErr := json.Unmarshal(body, target); unmarshalErr != nil {
		return fmt.Errorf("failed to parse %s response: %w", endpoint, unmarshalErr)
	}
	return nil
}

func (r *DeploymentRepository) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, r.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	telemetry.UpstreamRequestsTotal.WithLabelValues(entities.APIOctopus, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &entities.TransportError{
			API:        entities.APIOctopus,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

// ReleaseStatusFallbackText is shown by clients that cannot render blocks.
const ReleaseStatusFallbackText = "Octopus release status"

// ProjectGroupRef is a configured project group to report on.
type ProjectGroupRef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Project is a deployment project.
type Project struct {
	ID     string
	Name   string
	Slug   string
	WebURL string
}

// ProjectGroup holds the projects listed under a configured group.
type ProjectGroup struct {
	ID       string
	Name     string
	Projects []Project
}

// Release is a single project release.
type Release struct {
	ID        string
	Version   string
	Assembled time.Time
	WebURL    string
}

// PhaseProgress is the progress of a release through one lifecycle phase.
type PhaseProgress struct {
	Name     string
	Progress string
}

// ProjectReleaseStatus is the latest release of a project and where it stands.
type ProjectReleaseStatus struct {
	Project     Project
	Release     *Release
	Progression []PhaseProgress
}

// ProjectGroupReleaseStatus is the release status of every project of a group.
type ProjectGroupReleaseStatus struct {
	Group    ProjectGroup
	Projects []ProjectReleaseStatus
}

// BuildReleaseStatusPayload renders one header per group and one section per project.
func BuildReleaseStatusPayload(groups []ProjectGroupReleaseStatus, now time.Time) Payload {
	payload := Payload{
		slack.NewSectionBlock(markdown("Latest *Releases* per *Project*:"), nil, nil),
	}

	for _, group := range groups {
		payload = append(payload,
			slack.NewDividerBlock(),
			slack.NewSectionBlock(markdown(fmt.Sprintf("*%s*", group.Group.Name)), nil, nil),
		)

		for _, status := range group.Projects {
			payload = append(payload, renderProjectStatus(status, now)...)
		}
	}

	return payload
}

func renderProjectStatus(status ProjectReleaseStatus, now time.Time) []slack.Block {
	projectField := markdown(fmt.Sprintf("<%s|%s>", status.Project.WebURL, status.Project.Name))

	if status.Release == nil {
		return []slack.Block{
			slack.NewSectionBlock(nil, []*slack.TextBlockObject{projectField, markdown("No releases")}, nil),
		}
	}

	release := status.Release
	section := slack.NewSectionBlock(nil, []*slack.TextBlockObject{
		projectField,
		markdown(fmt.Sprintf("<%s|%s>", release.WebURL, release.Version)),
	}, nil)

	details := make([]string, 0, len(status.Progression)+1)
	for _, phase := range status.Progression {
		details = append(details, fmt.Sprintf("%s: %s", phase.Name, phase.Progress))
	}
	if !release.Assembled.IsZero() {
		details = append(details, fmt.Sprintf("assembled %s ago", HowLongAgo(release.Assembled, now)))
	}

	if len(details) == 0 {
		return []slack.Block{section}
	}

	return []slack.Block{
		section,
		slack.NewContextBlock("", markdown(strings.Join(details, " | "))),
	}
}

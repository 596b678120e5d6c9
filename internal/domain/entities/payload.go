package entities

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

const (
	// StaleUsageFallbackText is shown by clients that cannot render blocks.
	StaleUsageFallbackText = "Notify Octopus Step Template changes"

	staleUsageHeadline = "The following *Projects* are using an older version of the *Step Templates*:"
	staleUsageRowLimit = 5
)

// Payload is an ordered list of presentation blocks.
type Payload []slack.Block

// BuildStaleUsagePayload renders the drift report. Callers must not pass an empty groups slice.
//
// Each template gets a four-field section: linked template name, current version, then the
// stale projects and their pinned versions as aligned line lists. Only the first five projects
// are listed, followed by a link to the full usage page.
func BuildStaleUsagePayload(groups []StaleUsageGroup) Payload {
	payload := Payload{
		slack.NewSectionBlock(markdown(staleUsageHeadline), nil, nil),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			markdown("*Step Template:*"),
			markdown("*Version:*"),
		}, nil),
	}

	for _, group := range groups {
		names, versions := renderUsageColumns(group)
		payload = append(payload, slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			markdown(fmt.Sprintf("<%s|%s>", group.TemplateURL, group.TemplateName)),
			markdown(fmt.Sprintf("%d", group.Version)),
			markdown(names),
			markdown(versions),
		}, nil))
	}

	return payload
}

func renderUsageColumns(group StaleUsageGroup) (string, string) {
	var names, versions strings.Builder

	for i, usage := range group.Usages {
		if i == staleUsageRowLimit {
			fmt.Fprintf(&names, "<%s|More..>\n", group.TemplateURL)
			versions.WriteString("\n")
			break
		}
		fmt.Fprintf(&names, ">%s\n", usage.ProjectName)
		fmt.Fprintf(&versions, "%d\n", usage.Version)
	}

	return names.String(), versions.String()
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

package entities

import (
	"fmt"
	"strings"
)

const templateUsagePath = "library/steptemplates/%s/usage"

// Template is a step template as listed by the deployment API.
type Template struct {
	ID        string
	Name      string
	Version   int
	Community bool   // canonical definition is maintained outside this space
	UsageRef  string // relative API path listing the template's consumers
}

// UsageRecord is one project consuming a template at a pinned version.
type UsageRecord struct {
	ProjectName string
	Version     int
	TemplateID  string
}

// StaleUsageGroup gathers the consumers of a single template that lag its current version.
type StaleUsageGroup struct {
	TemplateID   string
	TemplateName string
	Version      int
	TemplateURL  string
	Usages       []UsageRecord
}

// StaleUsageReport is the outcome of a drift scan run.
type StaleUsageReport struct {
	Groups []StaleUsageGroup
	Posted bool
	Post   PostResult
}

// IsStaleFor reports whether the usage is pinned below the template's current version.
func (u UsageRecord) IsStaleFor(template Template) bool {
	return u.Version < template.Version
}

// TemplateUsageURL builds the web page listing every consumer of a template.
func TemplateUsageURL(webURL, templateID string) string {
	if !strings.HasSuffix(webURL, "/") {
		webURL += "/"
	}
	return webURL + fmt.Sprintf(templateUsagePath, templateID)
}

// NewStaleUsageGroup keeps the usages lagging behind template, in the order they were given.
// The second return value is false when no usage is stale.
func NewStaleUsageGroup(
	template Template,
	usages []UsageRecord,
	templateURL string,
) (StaleUsageGroup, bool) {
	var stale []UsageRecord
	for _, usage := range usages {
		if usage.IsStaleFor(template) {
			stale = append(stale, usage)
		}
	}

	if len(stale) == 0 {
		return StaleUsageGroup{}, false
	}

	return StaleUsageGroup{
		TemplateID:   template.ID,
		TemplateName: template.Name,
		Version:      template.Version,
		TemplateURL:  templateURL,
		Usages:       stale,
	}, true
}

//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// TemplateBuilder helps create test step templates with a fluent interface.
type TemplateBuilder struct {
	*testkit.BaseBuilder
	id        string
	name      string
	version   int
	community bool
	usageRef  string
}

// NewTemplateBuilder creates a new template builder with sensible defaults.
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		id:          "ActionTemplates-1",
		name:        "test-template",
		version:     1,
		usageRef:    "/api/Spaces-1/actiontemplates/ActionTemplates-1/usage",
	}
}

// WithID sets the template identifier and derives a matching usage reference.
func (b *TemplateBuilder) WithID(id string) *TemplateBuilder {
	b.id = id
	b.usageRef = "/api/Spaces-1/actiontemplates/" + id + "/usage"
	return b
}

// WithName sets the template name.
func (b *TemplateBuilder) WithName(name string) *TemplateBuilder {
	b.name = name
	return b
}

// WithVersion sets the current template version.
func (b *TemplateBuilder) WithVersion(version int) *TemplateBuilder {
	b.version = version
	return b
}

// WithCommunity marks the template as imported from the community library.
func (b *TemplateBuilder) WithCommunity() *TemplateBuilder {
	b.community = true
	return b
}

// WithUsageRef overrides the usage reference.
func (b *TemplateBuilder) WithUsageRef(usageRef string) *TemplateBuilder {
	b.usageRef = usageRef
	return b
}

// Build creates the template (satisfies testkit.Builder interface).
func (b *TemplateBuilder) Build() interface{} {
	return b.BuildTemplate()
}

// BuildTemplate creates the template with a concrete return type.
func (b *TemplateBuilder) BuildTemplate() entities.Template {
	return entities.Template{
		ID:        b.id,
		Name:      b.name,
		Version:   b.version,
		Community: b.community,
		UsageRef:  b.usageRef,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *TemplateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.id = "ActionTemplates-1"
	b.name = "test-template"
	b.version = 1
	b.community = false
	b.usageRef = "/api/Spaces-1/actiontemplates/ActionTemplates-1/usage"
	return b
}

// Clone creates a deep copy of the TemplateBuilder.
func (b *TemplateBuilder) Clone() testkit.Builder {
	return &TemplateBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		id:          b.id,
		name:        b.name,
		version:     b.version,
		community:   b.community,
		usageRef:    b.usageRef,
	}
}

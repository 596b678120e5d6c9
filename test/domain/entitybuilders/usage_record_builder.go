//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// UsageRecordBuilder helps create test usage records with a fluent interface.
type UsageRecordBuilder struct {
	*testkit.BaseBuilder
	projectName string
	version     int
	templateID  string
}

// NewUsageRecordBuilder creates a new usage record builder with sensible defaults.
func NewUsageRecordBuilder() *UsageRecordBuilder {
	return &UsageRecordBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		projectName: "test-project",
		version:     1,
		templateID:  "ActionTemplates-1",
	}
}

// WithProjectName sets the consuming project name.
func (b *UsageRecordBuilder) WithProjectName(name string) *UsageRecordBuilder {
	b.projectName = name
	return b
}

// WithVersion sets the template version the project uses.
func (b *UsageRecordBuilder) WithVersion(version int) *UsageRecordBuilder {
	b.version = version
	return b
}

// WithTemplateID sets the template identifier.
func (b *UsageRecordBuilder) WithTemplateID(id string) *UsageRecordBuilder {
	b.templateID = id
	return b
}

// Build creates the usage record (satisfies testkit.Builder interface).
func (b *UsageRecordBuilder) Build() interface{} {
	return b.BuildUsageRecord()
}

// BuildUsageRecord creates the usage record with a concrete return type.
func (b *UsageRecordBuilder) BuildUsageRecord() entities.UsageRecord {
	return entities.UsageRecord{
		ProjectName: b.projectName,
		Version:     b.version,
		TemplateID:  b.templateID,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *UsageRecordBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.projectName = "test-project"
	b.version = 1
	b.templateID = "ActionTemplates-1"
	return b
}

// Clone creates a deep copy of the UsageRecordBuilder.
func (b *UsageRecordBuilder) Clone() testkit.Builder {
	return &UsageRecordBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		projectName: b.projectName,
		version:     b.version,
		templateID:  b.templateID,
	}
}

//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

func TestDescribeIncidents(t *testing.T) {
	t.Parallel()

	t.Run("should list the open incidents found in the topic", func(t *testing.T) {
		t.Parallel()

		// given
		topic := "Open incidents: INC-12, INC-15 | On call: @jane"

		// when
		summary := entities.DescribeIncidents(topic)

		// then
		assert.Equal(t, "There are open incidents in the production Slack channel: INC-12, INC-15", summary)
	})

	t.Run("should report no incidents when the topic has no marker", func(t *testing.T) {
		t.Parallel()

		// given
		topic := "All systems nominal"

		// when
		summary := entities.DescribeIncidents(topic)

		// then
		assert.Equal(t, "There are no open incidents on the production Slack channel", summary)
	})
}

package commands

import "time"

// CollectReleaseStatus exports collectReleaseStatus for testing.
var CollectReleaseStatus = collectReleaseStatus //nolint:gochecknoglobals // test export

// NewReleaseStatusCommandAt creates a ReleaseStatusCommand with a fixed clock.
func NewReleaseStatusCommandAt(command *ReleaseStatusCommand, now time.Time) *ReleaseStatusCommand {
	command.now = func() time.Time { return now }
	return command
}

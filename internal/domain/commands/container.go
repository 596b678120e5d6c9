package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewStaleUsageCommand); err != nil {
		return err
	}
	if err := container.Provide(NewReleaseStatusCommand); err != nil {
		return err
	}
	if err := container.Provide(NewIncidentsCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *StaleUsageCommand) StaleUsage {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ReleaseStatusCommand) ReleaseStatus {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *IncidentsCommand) Incidents {
		return impl
	}); err != nil {
		return err
	}

	return nil
}

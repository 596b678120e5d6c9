package controllers

import (
	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewSettingsLoader); err != nil {
		return err
	}
	if err := container.Provide(NewScanController); err != nil {
		return err
	}
	if err := container.Provide(NewReleasesController); err != nil {
		return err
	}
	if err := container.Provide(NewServeController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	scanController *ScanController,
	releasesController *ReleasesController,
	serveController *ServeController,
) *[]entities.Controller {
	return &[]entities.Controller{
		scanController,
		releasesController,
		serveController,
	}
}

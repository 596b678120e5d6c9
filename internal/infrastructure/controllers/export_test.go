package controllers

import (
	"context"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// StripPrefix exports ChatRouter.stripPrefix for testing.
func (r *ChatRouter) StripPrefix(text string) (string, bool) {
	return r.stripPrefix(text)
}

// BuildRouter exports ServeController.buildRouter for testing.
func (it *ServeController) BuildRouter(ctx context.Context, settings *entities.Settings) (*ChatRouter, error) {
	return it.buildRouter(ctx, settings)
}

package repositories

import "context"

// ParameterRepository reads secrets and settings from a parameter store.
type ParameterRepository interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

package ssm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/rios0rios0/driftbot/internal/domain/repositories"
)

// GetParameterAPI is the subset of the SSM client used here.
type GetParameterAPI interface {
	GetParameter(
		ctx context.Context,
		params *awsssm.GetParameterInput,
		optFns ...func(*awsssm.Options),
	) (*awsssm.GetParameterOutput, error)
}

// ParameterRepository implements repositories.ParameterRepository with AWS Systems Manager Parameter Store.
type ParameterRepository struct {
	client GetParameterAPI
}

// NewParameterRepository loads the default AWS credential chain for region.
// An empty region falls back to AWS_REGION / AWS_DEFAULT_REGION.
func NewParameterRepository(ctx context.Context, region string) (repositories.ParameterRepository, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewParameterRepositoryWithClient(awsssm.NewFromConfig(awsCfg)), nil
}

// NewParameterRepositoryWithClient wraps an existing SSM client.
func NewParameterRepositoryWithClient(client GetParameterAPI) *ParameterRepository {
	return &ParameterRepository{client: client}
}

// GetParameter returns the decrypted value of a parameter.
func (r *ParameterRepository) GetParameter(ctx context.Context, name string) (string, error) {
	output, err := r.client.GetParameter(ctx, &awsssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %q: %w", name, err)
	}

	if output.Parameter == nil || output.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %q has no value", name)
	}
	return aws.ToString(output.Parameter.Value), nil
}

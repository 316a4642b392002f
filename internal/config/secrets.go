package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

// ProductionSSMPath is used when GO_ENV=production and no ssm_path is configured.
const ProductionSSMPath = "/samivl/prod/"

// ErrMissingAPIKey is returned when no API key could be resolved.
var ErrMissingAPIKey = errors.New("API key not set")

// ParameterStore is the subset of the SSM client used to load secrets.
type ParameterStore interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadEnvFile loads key=value pairs from path into the environment.
// A missing file is not an error; existing variables are not overwritten.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return nil
}

// SSMPathFor returns the parameter path to load, or "" when SSM is not in use.
func (s SecretsConfig) SSMPathFor() string {
	if s.SSMPath != "" {
		return s.SSMPath
	}

	if os.Getenv("GO_ENV") == "production" {
		return ProductionSSMPath
	}

	return ""
}

// NewSSMStore builds an SSM client from the default AWS credential chain.
func NewSSMStore(ctx context.Context, region string) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return ssm.NewFromConfig(cfg), nil
}

// ExportParameters copies every parameter under path into the environment,
// using the name with the path prefix removed as the variable name.
func ExportParameters(ctx context.Context, store ParameterStore, path string) (int, error) {
	var (
		exported int
		token    *string
	)

	for {
		out, err := store.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(path),
			WithDecryption: aws.Bool(true),
			Recursive:      aws.Bool(true),
			NextToken:      token,
		})
		if err != nil {
			return exported, fmt.Errorf("unable to load parameters under %s: %w", path, err)
		}

		for _, param := range out.Parameters {
			name := strings.TrimPrefix(aws.ToString(param.Name), path)
			if name == "" {
				continue
			}

			if err := os.Setenv(name, aws.ToString(param.Value)); err != nil {
				return exported, fmt.Errorf("unable to set %s: %w", name, err)
			}

			exported++
		}

		if out.NextToken == nil || *out.NextToken == "" {
			return exported, nil
		}

		token = out.NextToken
	}
}

// ResolveAPIKey loads the env file, then SSM parameters when configured,
// and returns the API key variable. store may be nil to build a real client.
func ResolveAPIKey(ctx context.Context, s SecretsConfig, store ParameterStore) (string, error) {
	if err := LoadEnvFile(s.EnvFile); err != nil {
		return "", err
	}

	if path := s.SSMPathFor(); path != "" {
		if store == nil {
			client, err := NewSSMStore(ctx, s.SSMRegion)
			if err != nil {
				return "", err
			}

			store = client
		}

		if _, err := ExportParameters(ctx, store, path); err != nil {
			return "", err
		}
	}

	key := strings.TrimSpace(os.Getenv(s.APIKeyEnv))
	if key == "" {
		return "", fmt.Errorf("%w: set %s in the environment or %s", ErrMissingAPIKey, s.APIKeyEnv, s.EnvFile)
	}

	return key, nil
}

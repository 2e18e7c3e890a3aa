package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

// LoadEnv populates the process environment before Load runs. Production
// pulls parameters from SSM under SSM_PARAMETER_PREFIX; every other
// environment reads an optional .env file.
func LoadEnv(ctx context.Context) error {
	if loadEnvironment() == EnvironmentProduction {
		prefix := os.Getenv("SSM_PARAMETER_PREFIX")
		if prefix == "" {
			return nil
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(getEnv("AWS_REGION", "us-east-1")))
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}

		n, err := ExportParameters(ctx, ssm.NewFromConfig(awsCfg), prefix)
		if err != nil {
			return err
		}
		logx.Infof("loaded %d environment variables from SSM", n)
		return nil
	}

	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logx.Debug("no .env file found, using process environment")
			return nil
		}
		return fmt.Errorf("unable to load .env: %w", err)
	}
	return nil
}

// ExportParameters sets one environment variable per parameter under prefix,
// named after the parameter path with the prefix removed. Variables already
// present in the environment win.
func ExportParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string) (int, error) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	exported := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return exported, fmt.Errorf("unable to load parameters from %s: %w", prefix, err)
		}

		for _, param := range out.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			key = strings.ReplaceAll(key, "/", "_")
			if key == "" {
				continue
			}
			if _, exists := os.LookupEnv(key); exists {
				continue
			}
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return exported, fmt.Errorf("unable to set %s: %w", key, err)
			}
			exported++
		}
	}
	return exported, nil
}

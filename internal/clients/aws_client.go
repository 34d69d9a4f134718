package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spacesedan/textsummarizer/config"
)

var (
	awsCfg  aws.Config
	awsErr  error
	awsOnce sync.Once
)

func GetAWSConfig(cfg config.AWSConfig) (aws.Config, error) {
	awsOnce.Do(func() {
		slog.Info("[AWSClient] Initializing AWS Config...",
			slog.String("region", cfg.Region))

		loaded, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region))
		if err != nil {
			slog.Error("[AWSClient] Failed to load AWS config",
				slog.String("error", err.Error()))
			awsErr = fmt.Errorf("[AWSClient] load config: %w", err)
			return
		}

		awsCfg = loaded
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfg, awsErr
}

// GetDynamoDBClient honours AWS_ENDPOINT so a local DynamoDB can be used.
func GetDynamoDBClient(cfg config.AWSConfig) (*dynamodb.Client, error) {
	awsConf, err := GetAWSConfig(cfg)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsConf, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

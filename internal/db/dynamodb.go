package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/textsummarizer/internal/models"
)

const RESULT_TTL = 24 * time.Hour

type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// SummaryRecord is one row of the results table, keyed by request_id.
type SummaryRecord struct {
	RequestID         string  `dynamodbav:"request_id"`
	SummaryText       string  `dynamodbav:"summary_text"`
	OriginalWordCount int     `dynamodbav:"original_word_count"`
	SummaryWordCount  int     `dynamodbav:"summary_word_count"`
	CompressionRatio  float64 `dynamodbav:"compression_ratio"`
	Provider          string  `dynamodbav:"provider"`
	MaxLength         int     `dynamodbav:"max_length"`
	MinLength         int     `dynamodbav:"min_length"`
	ToneLabel         string  `dynamodbav:"tone_label,omitempty"`
	CreatedAt         int64   `dynamodbav:"created_at"`
	TTL               int64   `dynamodbav:"ttl"`
}

type ResultStore struct {
	client DynamoDBAPI
	table  string
	now    func() time.Time
}

func NewResultStore(client DynamoDBAPI, table string) *ResultStore {
	return &ResultStore{client: client, table: table, now: time.Now}
}

func (s *ResultStore) StoreSummaryResult(ctx context.Context, requestID string, result *models.SummaryResult) error {
	item, err := ResultToDynamoDBItem(NewSummaryRecord(requestID, result, s.now()))
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store summary result: %w", err)
	}

	slog.Info("[DynamoDB] Successfully stored summary result",
		slog.String("request_id", requestID))
	return nil
}

func NewSummaryRecord(requestID string, result *models.SummaryResult, now time.Time) SummaryRecord {
	record := SummaryRecord{
		RequestID:         requestID,
		SummaryText:       result.SummaryText,
		OriginalWordCount: result.OriginalWordCount,
		SummaryWordCount:  result.SummaryWordCount,
		CompressionRatio:  result.CompressionRatio,
		Provider:          result.Provider,
		MaxLength:         result.MaxLength,
		MinLength:         result.MinLength,
		CreatedAt:         now.Unix(),
		TTL:               now.Add(RESULT_TTL).Unix(),
	}
	if result.Tone != nil {
		record.ToneLabel = result.Tone.Label
	}
	return record
}

func ResultToDynamoDBItem(record SummaryRecord) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal summary record: %w", err)
	}
	return item, nil
}

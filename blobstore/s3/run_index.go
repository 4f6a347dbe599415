package s3

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrRunExists is returned when a run ID has already been recorded.
var ErrRunExists = errors.New("run already recorded")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// RunRecord describes one published report.
type RunRecord struct {
	RunID       string
	ReportKey   string
	Rows        int
	BestSpeedup float64
	CreatedAt   time.Time
}

// RunIndex records published reports in DynamoDB so runs from different
// machines can be compared later.
//
// Table schema:
//   - Partition key: base_uri (string) - the bucket/prefix reports live under
//   - Sort key: run_id (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name saltsearch-runs \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=run_id,AttributeType=S \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=run_id,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type RunIndex struct {
	client    DDBClient
	tableName string
	baseURI   string
}

// NewRunIndex creates a RunIndex writing to tableName under baseURI.
func NewRunIndex(client DDBClient, tableName, baseURI string) *RunIndex {
	return &RunIndex{
		client:    client,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Record stores r. A run ID can only be recorded once; a second attempt
// returns ErrRunExists.
func (x *RunIndex) Record(ctx context.Context, r RunRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := x.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(x.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":     &types.AttributeValueMemberS{Value: x.baseURI},
			"run_id":       &types.AttributeValueMemberS{Value: r.RunID},
			"report_key":   &types.AttributeValueMemberS{Value: r.ReportKey},
			"rows":         &types.AttributeValueMemberN{Value: strconv.Itoa(r.Rows)},
			"best_speedup": &types.AttributeValueMemberN{Value: strconv.FormatFloat(r.BestSpeedup, 'f', 6, 64)},
			"created_at":   &types.AttributeValueMemberS{Value: r.CreatedAt.UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_not_exists(run_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrRunExists
		}
		return err
	}
	return nil
}

package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type DescribeAPI interface {
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// TableCheck reports a table as healthy when DescribeTable succeeds.
type TableCheck struct {
	client DescribeAPI
	table  string
}

func NewTableCheck(client DescribeAPI, table string) *TableCheck {
	return &TableCheck{client: client, table: table}
}

func (c *TableCheck) Health(ctx context.Context) error {
	if _, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(c.table)}); err != nil {
		return fmt.Errorf("describe table %s: %w", c.table, err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/models"
)

const DefaultOrdersTable = "orders"

// DynamoDBAPI is the subset of the DynamoDB client used by the repository.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoOrderRepository persists orders in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type DynamoOrderRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

func NewDynamoOrderRepository(ddb DynamoDBAPI, tableName string) *DynamoOrderRepository {
	if tableName == "" {
		tableName = DefaultOrdersTable
	}
	return &DynamoOrderRepository{ddb: ddb, tableName: tableName}
}

// Ping verifies the orders table exists.
func (r *DynamoOrderRepository) Ping(ctx context.Context) error {
	_, err := r.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", r.tableName, err)
	}
	return nil
}

func (r *DynamoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	av, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", order.ID, err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
	}
	if err != nil {
		return fmt.Errorf("put order %s: %w", order.ID, err)
	}
	return nil
}

func (r *DynamoOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, apperr.ErrOrderNotFound
	}

	var order models.Order
	if err := attributevalue.UnmarshalMap(out.Item, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order %s: %w", id, err)
	}
	return &order, nil
}

func (r *DynamoOrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})

	out := []*models.Order{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		var items []*models.Order
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		out = append(out, items...)
	}

	sortOrders(out)
	return out, nil
}

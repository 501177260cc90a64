// dyndb/store_test.go
package dyndb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/student-records-service/dyndb"
)

type testItem struct {
	ID    string `dynamodbav:"id"`
	Name  string `dynamodbav:"name"`
	Email string `dynamodbav:"email"`
}

func createTestStore(client dyndb.DynamoDBClient) dyndb.Store[testItem] {
	return dyndb.New(client, dyndb.TableConfig[testItem]{
		TableName:     "test-table",
		HashKey:       "id",
		ReadCapacity:  5,
		WriteCapacity: 5,
	})
}

func TestGet_Success(t *testing.T) {
	t.Parallel()

	mockClient := &dyndb.MockDynamoDBClient{
		GetItemFn: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			assert.Equal(t, "test-table", aws.ToString(params.TableName))
			assert.Equal(t, &types.AttributeValueMemberS{Value: "123"}, params.Key["id"])
			assert.True(t, aws.ToBool(params.ConsistentRead))

			return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
				"id":    &types.AttributeValueMemberS{Value: "123"},
				"name":  &types.AttributeValueMemberS{Value: "John"},
				"email": &types.AttributeValueMemberS{Value: "john@example.com"},
			}}, nil
		},
	}
	store := createTestStore(mockClient)

	item, err := store.Get(context.Background(), "123")

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "123", item.ID)
	assert.Equal(t, "John", item.Name)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	mockClient := &dyndb.MockDynamoDBClient{
		GetItemFn: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: nil}, nil
		},
	}
	store := createTestStore(mockClient)

	item, err := store.Get(context.Background(), "missing")

	require.ErrorIs(t, err, dyndb.ErrNotFound)
	assert.Nil(t, item)
}

func TestPut_Success(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.PutItemInput
	mockClient := &dyndb.MockDynamoDBClient{
		PutItemFn: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			captured = params
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	store := createTestStore(mockClient)

	err := store.Put(context.Background(), testItem{ID: "1", Name: "Ana", Email: "ana@example.com"})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "test-table", aws.ToString(captured.TableName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Ana"}, captured.Item["name"])
}

func TestUpdate_BuildsConditionalSet(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.UpdateItemInput
	mockClient := &dyndb.MockDynamoDBClient{
		UpdateItemFn: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			captured = params
			return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
				"id":   &types.AttributeValueMemberS{Value: "1"},
				"name": &types.AttributeValueMemberS{Value: "Novo Nome"},
			}}, nil
		},
	}
	store := createTestStore(mockClient)

	item, err := store.Update(context.Background(), "1", map[string]any{"name": "Novo Nome"})

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Novo Nome", item.Name)

	require.NotNil(t, captured)
	assert.Equal(t, "attribute_exists(id)", aws.ToString(captured.ConditionExpression))
	assert.Equal(t, types.ReturnValueAllNew, captured.ReturnValues)
	assert.Contains(t, aws.ToString(captured.UpdateExpression), "SET")
	assert.Contains(t, captured.ExpressionAttributeNames, "#0")
}

func TestUpdate_MissingItem(t *testing.T) {
	t.Parallel()

	mockClient := &dyndb.MockDynamoDBClient{
		UpdateItemFn: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		},
	}
	store := createTestStore(mockClient)

	item, err := store.Update(context.Background(), "missing", map[string]any{"name": "x"})

	require.ErrorIs(t, err, dyndb.ErrNotFound)
	assert.Nil(t, item)
}

func TestUpdate_EmptySet(t *testing.T) {
	t.Parallel()

	store := createTestStore(&dyndb.MockDynamoDBClient{})

	item, err := store.Update(context.Background(), "1", map[string]any{})

	require.Error(t, err)
	assert.Nil(t, item)
}

func TestDelete_Success(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.DeleteItemInput
	mockClient := &dyndb.MockDynamoDBClient{
		DeleteItemFn: func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			captured = params
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}
	store := createTestStore(mockClient)

	err := store.Delete(context.Background(), "1")

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "1"}, captured.Key["id"])
}

func TestScanAll_PaginatesToTheEnd(t *testing.T) {
	t.Parallel()

	calls := 0
	mockClient := &dyndb.MockDynamoDBClient{
		ScanFn: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			calls++
			if calls == 1 {
				assert.Nil(t, params.ExclusiveStartKey)
				return &dynamodb.ScanOutput{
					Items: []map[string]types.AttributeValue{
						{"id": &types.AttributeValueMemberS{Value: "1"}},
					},
					LastEvaluatedKey: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: "1"},
					},
				}, nil
			}
			assert.NotNil(t, params.ExclusiveStartKey)
			return &dynamodb.ScanOutput{
				Items: []map[string]types.AttributeValue{
					{"id": &types.AttributeValueMemberS{Value: "2"}},
				},
			}, nil
		},
	}
	store := createTestStore(mockClient)

	items, err := store.ScanAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
}

func TestScanAll_WithFilter(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.ScanInput
	mockClient := &dyndb.MockDynamoDBClient{
		ScanFn: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			captured = params
			return &dynamodb.ScanOutput{}, nil
		},
	}
	store := createTestStore(mockClient)

	filter := expression.Name("email").Contains("@example.com")
	items, err := store.ScanAll(context.Background(), &filter)

	require.NoError(t, err)
	assert.Empty(t, items)
	require.NotNil(t, captured)
	require.NotNil(t, captured.FilterExpression)
	assert.Contains(t, aws.ToString(captured.FilterExpression), "contains")
}

func TestDescribe_TableAbsent(t *testing.T) {
	t.Parallel()

	mockClient := &dyndb.MockDynamoDBClient{
		DescribeTableFn: func(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
			return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
		},
	}
	store := createTestStore(mockClient)

	desc, err := store.Describe(context.Background())

	require.NoError(t, err)
	assert.Nil(t, desc)
}

func TestDescribe_OtherErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("throttled")
	mockClient := &dyndb.MockDynamoDBClient{
		DescribeTableFn: func(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
			return nil, boom
		},
	}
	store := createTestStore(mockClient)

	desc, err := store.Describe(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Nil(t, desc)
}

func TestCreateTable_SendsSchemaAndTags(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.CreateTableInput
	mockClient := &dyndb.MockDynamoDBClient{
		CreateTableFn: func(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
			captured = params
			return &dynamodb.CreateTableOutput{}, nil
		},
	}
	store := dyndb.New(mockClient, dyndb.TableConfig[testItem]{
		TableName:     "test-table",
		HashKey:       "id",
		ReadCapacity:  5,
		WriteCapacity: 5,
		Tags:          map[string]string{"project": "student-records"},
	})

	err := store.CreateTable(context.Background())

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, types.KeyTypeHash, captured.KeySchema[0].KeyType)
	assert.Equal(t, "id", aws.ToString(captured.KeySchema[0].AttributeName))
	assert.Equal(t, int64(5), aws.ToInt64(captured.ProvisionedThroughput.ReadCapacityUnits))
	require.Len(t, captured.Tags, 1)
	assert.Equal(t, "project", aws.ToString(captured.Tags[0].Key))
}

func TestCreateTable_RaceIsNotAnError(t *testing.T) {
	t.Parallel()

	mockClient := &dyndb.MockDynamoDBClient{
		CreateTableFn: func(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
			return nil, &types.ResourceInUseException{Message: aws.String("Table already exists")}
		},
	}
	store := createTestStore(mockClient)

	err := store.CreateTable(context.Background())

	require.NoError(t, err)
}

func TestListTables_Paginates(t *testing.T) {
	t.Parallel()

	calls := 0
	mockClient := &dyndb.MockDynamoDBClient{
		ListTablesFn: func(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
			calls++
			if calls == 1 {
				return &dynamodb.ListTablesOutput{
					TableNames:             []string{"alpha", "beta"},
					LastEvaluatedTableName: aws.String("beta"),
				}, nil
			}
			assert.Equal(t, "beta", aws.ToString(params.ExclusiveStartTableName))
			return &dynamodb.ListTablesOutput{TableNames: []string{"gamma"}}, nil
		},
	}
	store := createTestStore(mockClient)

	names, err := store.ListTables(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

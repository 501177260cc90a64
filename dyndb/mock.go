// dyndb/mock.go
package dyndb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MockStore é um mock completo e fácil de usar para testes da interface Store[T].
//
// Ele expõe campos de função (`GetFn`, `PutFn`, etc.) que podem ser definidos
// para simular o comportamento desejado do DynamoDB durante os testes.
type MockStore[T any] struct {
	GetFn         func(ctx context.Context, hashKey any) (*T, error)
	PutFn         func(ctx context.Context, item T) error
	UpdateFn      func(ctx context.Context, hashKey any, set map[string]any) (*T, error)
	DeleteFn      func(ctx context.Context, hashKey any) error
	ScanAllFn     func(ctx context.Context, filter *expression.ConditionBuilder) ([]T, error)
	DescribeFn    func(ctx context.Context) (*types.TableDescription, error)
	CreateTableFn func(ctx context.Context) error
	ListTablesFn  func(ctx context.Context) ([]string, error)
}

func (m *MockStore[T]) Get(ctx context.Context, hashKey any) (*T, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, hashKey)
	}
	return nil, ErrNotFound
}

func (m *MockStore[T]) Put(ctx context.Context, item T) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, item)
	}
	return nil
}

func (m *MockStore[T]) Update(ctx context.Context, hashKey any, set map[string]any) (*T, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, hashKey, set)
	}
	return nil, ErrNotFound
}

func (m *MockStore[T]) Delete(ctx context.Context, hashKey any) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, hashKey)
	}
	return nil
}

func (m *MockStore[T]) ScanAll(ctx context.Context, filter *expression.ConditionBuilder) ([]T, error) {
	if m.ScanAllFn != nil {
		return m.ScanAllFn(ctx, filter)
	}
	return nil, nil
}

func (m *MockStore[T]) Describe(ctx context.Context) (*types.TableDescription, error) {
	if m.DescribeFn != nil {
		return m.DescribeFn(ctx)
	}
	return nil, nil
}

func (m *MockStore[T]) CreateTable(ctx context.Context) error {
	if m.CreateTableFn != nil {
		return m.CreateTableFn(ctx)
	}
	return nil
}

func (m *MockStore[T]) ListTables(ctx context.Context) ([]string, error) {
	if m.ListTablesFn != nil {
		return m.ListTablesFn(ctx)
	}
	return nil, nil
}

// MockDynamoDBClient é um mock para a interface DynamoDBClient de baixo nível.
//
// Permite testar a lógica interna do `dynamoStore` sem tocar no AWS SDK.
type MockDynamoDBClient struct {
	GetItemFn       func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItemFn       func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItemFn    func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItemFn    func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	ScanFn          func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTableFn func(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTableFn   func(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	ListTablesFn    func(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

func (m *MockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *MockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.PutItemFn != nil {
		return m.PutItemFn(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *MockDynamoDBClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if m.UpdateItemFn != nil {
		return m.UpdateItemFn(ctx, params, optFns...)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (m *MockDynamoDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, params, optFns...)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *MockDynamoDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.ScanFn != nil {
		return m.ScanFn(ctx, params, optFns...)
	}
	return &dynamodb.ScanOutput{}, nil
}

func (m *MockDynamoDBClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if m.DescribeTableFn != nil {
		return m.DescribeTableFn(ctx, params, optFns...)
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func (m *MockDynamoDBClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if m.CreateTableFn != nil {
		return m.CreateTableFn(ctx, params, optFns...)
	}
	return &dynamodb.CreateTableOutput{}, nil
}

func (m *MockDynamoDBClient) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	if m.ListTablesFn != nil {
		return m.ListTablesFn(ctx, params, optFns...)
	}
	return &dynamodb.ListTablesOutput{}, nil
}

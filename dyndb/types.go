package dyndb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/raywall/student-records-service/envloader"
)

// ErrNotFound — erro padrão quando o item não existe na tabela.
var ErrNotFound = errors.New("dyndb: item not found")

// DynamoDBClient abstrai o cliente DynamoDB do SDK v2.
//
// É a superfície de comandos completa consumida pelo serviço (dados + admin de
// tabela). O `*dynamodb.Client` real satisfaz a interface; em testes, use o
// `MockDynamoDBClient`.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

// Store — interface principal do adaptador (genérica).
type Store[T any] interface {
	Get(ctx context.Context, hashKey any) (*T, error)
	Put(ctx context.Context, item T) error
	Update(ctx context.Context, hashKey any, set map[string]any) (*T, error)
	Delete(ctx context.Context, hashKey any) error
	ScanAll(ctx context.Context, filter *expression.ConditionBuilder) ([]T, error)

	Describe(ctx context.Context) (*types.TableDescription, error)
	CreateTable(ctx context.Context) error
	ListTables(ctx context.Context) ([]string, error)
}

// TableConfig — configuração da tabela única de chave de partição simples.
//
// ReadCapacity/WriteCapacity definem o throughput provisionado usado no
// CreateTable; Tags são aplicadas na criação.
type TableConfig[T any] struct {
	TableName     string `env:"DYNAMODB_TABLE_NAME"`
	HashKey       string `env:"DYNAMODB_HASH_KEY" envDefault:"id"`
	ReadCapacity  int64  `env:"DYNAMODB_READ_CAPACITY" envDefault:"5"`
	WriteCapacity int64  `env:"DYNAMODB_WRITE_CAPACITY" envDefault:"5"`
	Tags          map[string]string
}

// New cria um store reutilizável. Se TableName estiver vazio, tenta preencher a
// configuração via variáveis de ambiente (tags `env`).
func New[T any](client DynamoDBClient, cfg TableConfig[T]) Store[T] {
	if cfg.TableName == "" {
		_ = envloader.Load(&cfg)
	}
	if cfg.HashKey == "" {
		cfg.HashKey = "id"
	}

	return &dynamoStore[T]{
		client: client,
		cfg:    cfg,
	}
}

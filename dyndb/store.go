package dyndb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoStore[T any] struct {
	client DynamoDBClient
	cfg    TableConfig[T]
}

// Get busca o item pela chave de partição.
func (s *dynamoStore[T]) Get(ctx context.Context, hashKey any) (*T, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.cfg.TableName),
		Key: map[string]types.AttributeValue{
			s.cfg.HashKey: attr(hashKey),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dyndb: get failed: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item T
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("dyndb: unmarshal failed: %w", err)
	}
	return &item, nil
}

// Put grava o item completo (upsert incondicional).
func (s *dynamoStore[T]) Put(ctx context.Context, item T) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dyndb: marshal failed: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.TableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dyndb: put failed: %w", err)
	}
	return nil
}

// Update aplica um SET parcial cobrindo apenas os atributos informados em `set`
// e retorna o item pós-atualização (ALL_NEW).
//
// A atualização é condicionada à existência da chave de partição: atualizar um
// id inexistente retorna ErrNotFound em vez do create-on-update nativo do
// DynamoDB.
func (s *dynamoStore[T]) Update(ctx context.Context, hashKey any, set map[string]any) (*T, error) {
	if len(set) == 0 {
		return nil, errors.New("dyndb: update requires at least one attribute")
	}

	var upd expression.UpdateBuilder
	for name, value := range set {
		upd = upd.Set(expression.Name(name), expression.Value(value))
	}

	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return nil, fmt.Errorf("dyndb: build update expression failed: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.cfg.TableName),
		Key: map[string]types.AttributeValue{
			s.cfg.HashKey: attr(hashKey),
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       aws.String(fmt.Sprintf("attribute_exists(%s)", s.cfg.HashKey)),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("dyndb: update failed: %w", err)
	}

	var item T
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("dyndb: unmarshal failed: %w", err)
	}
	return &item, nil
}

// Delete remove o item pela chave de partição. Não é erro remover um id
// inexistente.
func (s *dynamoStore[T]) Delete(ctx context.Context, hashKey any) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cfg.TableName),
		Key: map[string]types.AttributeValue{
			s.cfg.HashKey: attr(hashKey),
		},
	})
	if err != nil {
		return fmt.Errorf("dyndb: delete failed: %w", err)
	}
	return nil
}

// ScanAll varre a tabela inteira, paginando até o fim, com filtro opcional.
// Nenhuma ordenação é garantida — a ordem é a que o DynamoDB devolver.
func (s *dynamoStore[T]) ScanAll(ctx context.Context, filter *expression.ConditionBuilder) ([]T, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.cfg.TableName),
	}

	if filter != nil {
		expr, err := expression.NewBuilder().WithFilter(*filter).Build()
		if err != nil {
			return nil, fmt.Errorf("dyndb: build filter expression failed: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	items := make([]T, 0)
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dyndb: scan failed: %w", err)
		}
		for _, raw := range page.Items {
			var item T
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("dyndb: unmarshal failed: %w", err)
			}
			items = append(items, item)
		}
	}

	return items, nil
}

// Describe retorna os metadados da tabela, ou (nil, nil) quando a tabela não
// existe — ausência nunca é erro aqui.
func (s *dynamoStore[T]) Describe(ctx context.Context) (*types.TableDescription, error) {
	out, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.cfg.TableName),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("dyndb: describe table %s failed: %w", s.cfg.TableName, err)
	}
	return out.Table, nil
}

// CreateTable emite a criação da tabela com chave de partição simples (string)
// e throughput provisionado fixo. A chamada retorna antes da tabela ficar
// ACTIVE; quem decide esperar é o chamador.
//
// Uma corrida de criação (ResourceInUseException) não é erro: outra instância
// chegou primeiro e a tabela já está sendo criada.
func (s *dynamoStore[T]) CreateTable(ctx context.Context) error {
	input := &dynamodb.CreateTableInput{
		TableName: aws.String(s.cfg.TableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(s.cfg.HashKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(s.cfg.HashKey), KeyType: types.KeyTypeHash},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(s.cfg.ReadCapacity),
			WriteCapacityUnits: aws.Int64(s.cfg.WriteCapacity),
		},
	}

	for key, value := range s.cfg.Tags {
		input.Tags = append(input.Tags, types.Tag{
			Key:   aws.String(key),
			Value: aws.String(value),
		})
	}

	_, err := s.client.CreateTable(ctx, input)
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("dyndb: create table %s failed: %w", s.cfg.TableName, err)
	}
	return nil
}

// ListTables lista todos os nomes de tabela conhecidos, paginando via
// ExclusiveStartTableName. Uso apenas para diagnóstico.
func (s *dynamoStore[T]) ListTables(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	input := &dynamodb.ListTablesInput{}

	for {
		out, err := s.client.ListTables(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("dyndb: list tables failed: %w", err)
		}
		names = append(names, out.TableNames...)

		if out.LastEvaluatedTableName == nil {
			break
		}
		input.ExclusiveStartTableName = out.LastEvaluatedTableName
	}

	return names, nil
}

// attr converte qualquer valor para types.AttributeValue
func attr(v any) types.AttributeValue {
	if v == nil {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	return av
}

// Package dyndb fornece o adaptador tipado sobre o protocolo de comandos do
// AWS DynamoDB (SDK v2) usado pelo serviço de registros de estudantes.
//
// Visão Geral:
// O pacote expõe a interface `Store[T]`, que cobre exatamente a superfície de
// comandos consumida pelo serviço: leitura pontual (GetItem), escrita (PutItem),
// atualização parcial com expressão (UpdateItem), remoção (DeleteItem), varredura
// completa com filtro (Scan) e a administração de tabela (DescribeTable,
// CreateTable, ListTables).
//
// O adaptador não guarda estado: é um pass-through tipado que converte entre
// structs Go (via attributevalue) e os tipos de baixo nível do SDK. Toda a
// política — provisionamento preguiçoso, polling de ativação, regras de busca —
// vive no pacote `students`.
//
// Exemplo:
//
//	type Student struct {
//		ID       string `dynamodbav:"id"`
//		FullName string `dynamodbav:"fullName"`
//	}
//
//	cfg := dyndb.TableConfig[Student]{TableName: "students", HashKey: "id"}
//	store := dyndb.New(dynamodb.NewFromConfig(awsCfg), cfg)
//
//	st, err := store.Get(ctx, "1700000000000")
//	if errors.Is(err, dyndb.ErrNotFound) { /* ... */ }
//
// Para testes, `MockDynamoDBClient` e `MockStore[T]` oferecem mocks baseados em
// campos de função (`GetItemFn`, `PutFn`, etc.), sem dependência do SDK real.
package dyndb

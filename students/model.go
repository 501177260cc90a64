package students

import (
	"github.com/raywall/student-records-service/dyndb"
)

// Student é o registro persistido na tabela. Os carimbos de tempo são strings
// RFC3339 em UTC; o id é derivado do relógio (UnixMilli decimal) no Create.
type Student struct {
	ID          string `json:"id" dynamodbav:"id"`
	FullName    string `json:"fullName" dynamodbav:"fullName"`
	Address     string `json:"address" dynamodbav:"address"`
	Email       string `json:"email" dynamodbav:"email"`
	PhoneNumber string `json:"phoneNumber" dynamodbav:"phoneNumber"`
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// CreateStudentInput é o payload de criação. id/createdAt/updatedAt são
// atribuídos pelo serviço, nunca pelo chamador.
type CreateStudentInput struct {
	FullName    string `json:"fullName" validate:"required"`
	Address     string `json:"address"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateStudentInput é o payload de atualização parcial: apenas os campos não
// nulos entram na expressão SET. Campos do sistema (id, createdAt, updatedAt)
// não são atualizáveis por aqui — updatedAt é carimbado pelo serviço.
type UpdateStudentInput struct {
	FullName    *string `json:"fullName,omitempty"`
	Address     *string `json:"address,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// TableInfo é o resumo de metadados da tabela exposto pelo Describe.
type TableInfo struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	ItemCount     int64  `json:"itemCount"`
	SizeBytes     int64  `json:"sizeBytes"`
	ReadCapacity  int64  `json:"readCapacity"`
	WriteCapacity int64  `json:"writeCapacity"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// DefaultTableConfig devolve a configuração padrão da tabela de estudantes:
// chave de partição simples `id` (string), throughput provisionado 5/5 e as
// tags de propriedade do projeto.
func DefaultTableConfig(tableName string) dyndb.TableConfig[Student] {
	return dyndb.TableConfig[Student]{
		TableName:     tableName,
		HashKey:       "id",
		ReadCapacity:  5,
		WriteCapacity: 5,
		Tags: map[string]string{
			"project":    "student-records",
			"managed-by": "student-records-service",
		},
	}
}

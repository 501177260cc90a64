package students

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/rs/zerolog"

	"github.com/raywall/student-records-service/dyndb"
)

// Service expõe as operações de registro de estudantes.
//
// Todas as operações chamam EnsureExists antes de tocar na tabela; o custo após
// a primeira ativação é uma leitura atômica. O handle é seguro para uso
// concorrente.
type Service struct {
	store  dyndb.Store[Student]
	tables *TableManager
	log    zerolog.Logger

	// relógio injetável para os testes
	now func() time.Time
}

// NewService cria o serviço com as dependências explícitas.
func NewService(store dyndb.Store[Student], tables *TableManager, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		tables: tables,
		log:    log,
		now:    time.Now,
	}
}

// Create insere um novo estudante. O id é o instante atual em milissegundos
// Unix, renderizado como string decimal — colisões no mesmo milissegundo não
// são prevenidas (última escrita vence). createdAt e updatedAt nascem iguais.
func (s *Service) Create(ctx context.Context, in CreateStudentInput) (*Student, error) {
	if err := s.tables.EnsureExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	ts := s.now().UTC()
	stamp := ts.Format(time.RFC3339)

	student := Student{
		ID:          strconv.FormatInt(ts.UnixMilli(), 10),
		FullName:    in.FullName,
		Address:     in.Address,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}

	if err := s.store.Put(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.log.Info().Str("student_id", student.ID).Msg("student created")
	return &student, nil
}

// GetAll devolve todos os estudantes. Varredura completa, sem garantia de
// ordem.
func (s *Service) GetAll(ctx context.Context) ([]Student, error) {
	if err := s.tables.EnsureExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}

	items, err := s.store.ScanAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}
	return items, nil
}

// GetByID busca um estudante pelo id. Ausência não é erro: (nil, nil).
func (s *Service) GetByID(ctx context.Context, id string) (*Student, error) {
	if err := s.tables.EnsureExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	student, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, dyndb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// Update aplica uma atualização parcial: apenas os campos não nulos de `in`
// entram no SET, mais o carimbo updatedAt. createdAt nunca muda. Atualizar um
// id inexistente devolve (nil, nil), espelhando o GetByID — nenhum registro é
// criado.
func (s *Service) Update(ctx context.Context, id string, in UpdateStudentInput) (*Student, error) {
	if err := s.tables.EnsureExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	set := map[string]any{
		"updatedAt": s.now().UTC().Format(time.RFC3339),
	}
	if in.FullName != nil {
		set["fullName"] = *in.FullName
	}
	if in.Address != nil {
		set["address"] = *in.Address
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.PhoneNumber != nil {
		set["phoneNumber"] = *in.PhoneNumber
	}

	student, err := s.store.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, dyndb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.log.Info().Str("student_id", id).Msg("student updated")
	return student, nil
}

// Delete remove o estudante e devolve o id recebido. Remover um id inexistente
// não é erro.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if err := s.tables.EnsureExists(ctx); err != nil {
		return "", fmt.Errorf("failed to delete student: %w", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("failed to delete student: %w", err)
	}

	s.log.Info().Str("student_id", id).Msg("student deleted")
	return id, nil
}

// Search busca por substring em fullName, email e phoneNumber (OR). Consulta
// vazia ou só espaços equivale ao GetAll.
//
// A agulha é normalizada para minúsculas, mas os campos armazenados não são —
// na prática o casamento só acontece contra texto armazenado já em minúsculas.
// O comportamento é herdado e mantido; normalizar os dois lados mudaria o
// resultado de dados existentes.
func (s *Service) Search(ctx context.Context, query string) ([]Student, error) {
	if err := s.tables.EnsureExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		items, err := s.store.ScanAll(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to search students: %w", err)
		}
		return items, nil
	}

	needle := strings.ToLower(trimmed)
	filter := expression.Name("fullName").Contains(needle).
		Or(expression.Name("email").Contains(needle)).
		Or(expression.Name("phoneNumber").Contains(needle))

	items, err := s.store.ScanAll(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return items, nil
}

// SearchByAddress busca por substring literal no campo address — sem
// normalização de caixa. Substring vazia equivale ao GetAll.
func (s *Service) SearchByAddress(ctx context.Context, substring string) ([]Student, error) {
	return s.searchField(ctx, "address", substring)
}

// SearchByEmailDomain busca por substring literal no campo email (tipicamente
// um sufixo de domínio, ex.: "@ifce.edu.br"). Substring vazia equivale ao
// GetAll.
func (s *Service) SearchByEmailDomain(ctx context.Context, substring string) ([]Student, error) {
	return s.searchField(ctx, "email", substring)
}

func (s *Service) searchField(ctx context.Context, field, substring string) ([]Student, error) {
	if err := s.tables.EnsureExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}

	var filter *expression.ConditionBuilder
	if trimmed := strings.TrimSpace(substring); trimmed != "" {
		cond := expression.Name(field).Contains(trimmed)
		filter = &cond
	}

	items, err := s.store.ScanAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return items, nil
}

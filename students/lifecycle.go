package students

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/raywall/student-records-service/dyndb"
)

const (
	defaultPollInterval = 1 * time.Second
	defaultMaxAttempts  = 20
)

// LifecycleConfig controla o polling de ativação da tabela.
type LifecycleConfig struct {
	PollInterval time.Duration `env:"TABLE_POLL_INTERVAL" envDefault:"1s" yaml:"poll_interval"`
	MaxAttempts  int           `env:"TABLE_POLL_MAX_ATTEMPTS" envDefault:"20" yaml:"max_attempts"`
}

// TableManager provisiona e inspeciona a tabela de estudantes.
//
// EnsureExists é idempotente e barato de chamar antes de toda operação: depois
// da primeira confirmação de tabela ACTIVE, as chamadas seguintes custam só uma
// leitura atômica.
type TableManager struct {
	store dyndb.Store[Student]
	cfg   LifecycleConfig
	log   zerolog.Logger

	ready atomic.Bool
}

// NewTableManager cria o gerenciador. Valores zerados em cfg assumem os padrões
// (intervalo de 1s, teto de 20 tentativas).
func NewTableManager(store dyndb.Store[Student], cfg LifecycleConfig, log zerolog.Logger) *TableManager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	return &TableManager{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

// EnsureExists garante que a tabela exista e esteja ACTIVE.
//
// Fluxo: DescribeTable como fast path; se a tabela não existe, emite
// CreateTable e entra em polling de intervalo fixo até o status ACTIVE ou o
// teto de tentativas (ErrTableTimeout). Uma corrida de criação com outra
// instância degrada para o mesmo polling. Erros transitórios de describe
// durante o polling contam como "ainda não pronta".
func (m *TableManager) EnsureExists(ctx context.Context) error {
	if m.ready.Load() {
		return nil
	}

	desc, err := m.store.Describe(ctx)
	if err != nil {
		return fmt.Errorf("describe table: %w", err)
	}

	if desc != nil && desc.TableStatus == types.TableStatusActive {
		m.ready.Store(true)
		return nil
	}

	if desc == nil {
		m.log.Info().Msg("students table not found, creating")
		if err := m.store.CreateTable(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.cfg.PollInterval):
		}

		desc, err := m.store.Describe(ctx)
		if err != nil || desc == nil {
			m.log.Debug().Int("attempt", attempt).Msg("table not ready yet")
			continue
		}
		if desc.TableStatus == types.TableStatusActive {
			m.log.Info().Int("attempt", attempt).Msg("students table active")
			m.ready.Store(true)
			return nil
		}
	}

	return ErrTableTimeout
}

// Describe devolve o resumo de metadados da tabela, ou (nil, nil) quando ela
// não existe.
func (m *TableManager) Describe(ctx context.Context) (*TableInfo, error) {
	desc, err := m.store.Describe(ctx)
	if err != nil {
		return nil, fmt.Errorf("describe table: %w", err)
	}
	if desc == nil {
		return nil, nil
	}

	info := &TableInfo{
		Status: string(desc.TableStatus),
	}
	if desc.TableName != nil {
		info.Name = *desc.TableName
	}
	if desc.ItemCount != nil {
		info.ItemCount = *desc.ItemCount
	}
	if desc.TableSizeBytes != nil {
		info.SizeBytes = *desc.TableSizeBytes
	}
	if tp := desc.ProvisionedThroughput; tp != nil {
		if tp.ReadCapacityUnits != nil {
			info.ReadCapacity = *tp.ReadCapacityUnits
		}
		if tp.WriteCapacityUnits != nil {
			info.WriteCapacity = *tp.WriteCapacityUnits
		}
	}
	if desc.CreationDateTime != nil {
		info.CreatedAt = desc.CreationDateTime.UTC().Format(time.RFC3339)
	}

	return info, nil
}

// ListAll lista os nomes de todas as tabelas visíveis na conta/região.
// Diagnóstico apenas.
func (m *TableManager) ListAll(ctx context.Context) ([]string, error) {
	names, err := m.store.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

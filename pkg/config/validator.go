package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *Config) error {
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Field(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *Config) error {
	// o intervalo de polling precisa ser uma duração válida e positiva
	if cfg.Table.PollInterval != "" {
		d, err := time.ParseDuration(cfg.Table.PollInterval)
		if err != nil {
			return fmt.Errorf("table.poll_interval inválido: '%s'", cfg.Table.PollInterval)
		}
		if d <= 0 {
			return fmt.Errorf("table.poll_interval deve ser positivo, recebido '%s'", cfg.Table.PollInterval)
		}
	}

	// runtime lambda não abre porta HTTP; os demais precisam de uma
	if cfg.Service.Runtime != "lambda" && cfg.Service.Port == 0 {
		return fmt.Errorf("service.port é obrigatório para o runtime '%s'", cfg.Service.Runtime)
	}

	// fila de eventos, quando definida, deve ser uma URL de fila SQS
	if url := cfg.Events.QueueURL; url != "" && !strings.HasPrefix(url, "https://sqs.") {
		return fmt.Errorf("events.queue_url não parece uma URL de fila SQS: '%s'", url)
	}

	return nil
}

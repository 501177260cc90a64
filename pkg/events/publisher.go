// Package events publica notificações de mudança de registro em uma fila SQS
// para consumidores downstream (sincronizações, auditoria).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
)

// SQSClient define a interface necessária para o publicador (permite Mocking)
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// ChangeEvent é o payload publicado após cada mutação bem-sucedida.
type ChangeEvent struct {
	Action string `json:"action"` // created | updated | deleted
	ID     string `json:"id"`
	At     string `json:"at"` // RFC3339 UTC
}

// Publisher envia eventos de mudança para a fila configurada. Com a URL vazia
// o publicador vira no-op; falhas de publicação são logadas e não propagam —
// a mutação já aconteceu e não deve falhar por causa da notificação.
type Publisher struct {
	client   SQSClient
	queueURL string
	logger   zerolog.Logger
}

// NewPublisher cria o publicador. client pode ser nil quando queueURL é vazio.
func NewPublisher(client SQSClient, queueURL string, logger zerolog.Logger) *Publisher {
	p := &Publisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger.With().Str("component", "events_publisher").Logger(),
	}
	if queueURL == "" {
		p.logger.Warn().Msg("URL da fila de eventos não configurada. Publicação de mudanças desativada.")
	}
	return p
}

// Publish envia um ChangeEvent para a fila. No-op com a fila desabilitada.
func (p *Publisher) Publish(ctx context.Context, action, id string) {
	if p.queueURL == "" || p.client == nil {
		return
	}

	event := ChangeEvent{
		Action: action,
		ID:     id,
		At:     time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("falha ao serializar evento de mudança")
		return
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		p.logger.Error().Err(err).Str("action", action).Str("student_id", id).Msg("falha ao publicar evento de mudança")
		return
	}

	p.logger.Debug().Str("action", action).Str("student_id", id).Msg("evento de mudança publicado")
}

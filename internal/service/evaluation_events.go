package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/noah-isme/rubricai-api/internal/models"
)

// EvaluationPublisher announces evaluations that were added to the history.
type EvaluationPublisher interface {
	Publish(ctx context.Context, record models.EvaluationRecord) error
}

type natsEvaluationPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSEvaluationPublisher publishes records as JSON on subject.
func NewNATSEvaluationPublisher(conn *nats.Conn, subject string) EvaluationPublisher {
	return &natsEvaluationPublisher{conn: conn, subject: subject}
}

func (p *natsEvaluationPublisher) Publish(_ context.Context, record models.EvaluationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode evaluation event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish evaluation event: %w", err)
	}
	return nil
}

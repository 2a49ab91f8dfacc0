package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/passai/material-service/config"
	"github.com/passai/material-service/models"

	kafka "github.com/segmentio/kafka-go"
)

// MaterialProcessed is published when a material reaches a terminal state.
// Downstream consumers (indexing, notifications) key on the material id.
type MaterialProcessed struct {
	MaterialID   string                  `json:"material_id"`
	UserID       string                  `json:"user_id"`
	FileType     models.FileType         `json:"file_type"`
	Status       models.ProcessingStatus `json:"status"`
	TextLength   int                     `json:"text_length"`
	ErrorMessage string                  `json:"error_message,omitempty"`
}

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns nil when no brokers are configured; a nil Publisher
// is safe to call and publishes nothing.
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	if cfg.Brokers == "" {
		log.Printf("kafka publisher disabled (missing config)")
		return nil
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  splitBrokers(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: writer}
}

// Publish is best-effort; a broker failure never fails the request that
// produced the event.
func (p *Publisher) Publish(ctx context.Context, event MaterialProcessed) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("kafka marshal event: %v", err)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.MaterialID),
		Value: payload,
	})
	if err != nil {
		log.Printf("kafka publish material %s: %v", event.MaterialID, err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

func splitBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

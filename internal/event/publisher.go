// Package event publica eventos de domínio (pedido finalizado, carrinho esvaziado) no Kafka.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"shoemarket/internal/pkg/logger"
)

// Tipos de evento publicados.
const (
	OrderPlaced = "order.placed"
	CartCleared = "cart.cleared"
)

const source = "shoemarket-api"

// Event é o envelope padrão das mensagens.
type Event struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Source      string          `json:"source"`
	Data        json.RawMessage `json:"data"`
}

// NewEvent monta o envelope com ID e horário gerados.
func NewEvent(eventType, aggregateID string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("falha ao serializar dados do evento: %w", err)
	}
	return Event{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Timestamp:   time.Now().UTC(),
		Source:      source,
		Data:        raw,
	}, nil
}

// Publisher é o contrato usado pelos serviços.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// MessageWriter é o subconjunto de *kafka.Writer usado pelo produtor.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publica eventos num tópico Kafka.
type Producer struct {
	writer MessageWriter
	topic  string
	logger logger.Logger
}

// NewProducer cria o produtor com um kafka.Writer síncrono.
func NewProducer(brokers []string, topic string, log logger.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return NewProducerWithWriter(w, topic, log)
}

// NewProducerWithWriter permite injetar o writer (testes).
func NewProducerWithWriter(w MessageWriter, topic string, log logger.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: log}
}

// Publish envia o evento. A chave da mensagem é o AggregateID.
func (p *Producer) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("falha ao serializar evento: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(e.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "source", Value: []byte(e.Source)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Falha ao publicar evento.", err)
		return fmt.Errorf("falha ao publicar evento %s: %w", e.EventType, err)
	}

	p.logger.Debug("Evento publicado.", map[string]interface{}{"event_type": e.EventType, "aggregate_id": e.AggregateID})
	return nil
}

// Close encerra o writer descarregando mensagens pendentes.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher descarta os eventos. Usado quando nenhum broker está configurado.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

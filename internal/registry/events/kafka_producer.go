// Package events publishes registry lifecycle events to Kafka. Events are
// queued on a buffered channel and written by a single background loop so
// that producing never blocks a request.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gartstein/k9registry/internal/registry/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	DogCreated      EventType = "dog_created"
	DogUpdated      EventType = "dog_updated"
	DogDeleted      EventType = "dog_deleted"
	DogRetired      EventType = "dog_retired"
	SupplierCreated EventType = "supplier_created"
	SupplierUpdated EventType = "supplier_updated"
)

// Event is the envelope written to the topic. Exactly one of Dog and
// Supplier is set.
type Event struct {
	ID         uuid.UUID        `json:"id"`
	Type       EventType        `json:"type"`
	OccurredAt time.Time        `json:"occurredAt"`
	Dog        *models.Dog      `json:"dog,omitempty"`
	Supplier   *models.Supplier `json:"supplier,omitempty"`
}

// Key returns the partitioning key: all events of one entity share a key.
func (e Event) Key() string {
	switch {
	case e.Dog != nil:
		return "dog-" + strconv.FormatInt(e.Dog.ID, 10)
	case e.Supplier != nil:
		return "supplier-" + strconv.FormatInt(e.Supplier.ID, 10)
	default:
		return e.ID.String()
	}
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

// NewProducer ensures the topic exists and starts the event loop.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)

	go p.eventLoop()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}
}

func (p *Producer) ProduceDog(eventType EventType, dog *models.Dog) {
	p.enqueue(Event{ID: uuid.New(), Type: eventType, OccurredAt: time.Now().UTC(), Dog: dog})
}

func (p *Producer) ProduceSupplier(eventType EventType, supplier *models.Supplier) {
	p.enqueue(Event{ID: uuid.New(), Type: eventType, OccurredAt: time.Now().UTC(), Supplier: supplier})
}

func (p *Producer) enqueue(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("key", event.Key()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key()),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards events; used when Kafka is disabled.
type NopProducer struct {
	logger *zap.Logger
}

func NewNopProducer(logger *zap.Logger) *NopProducer {
	return &NopProducer{logger: logger.Named("nop_producer")}
}

func (n *NopProducer) ProduceDog(eventType EventType, dog *models.Dog) {
	n.logger.Debug("Discarding event", zap.String("event_type", string(eventType)), zap.Int64("dog_id", dog.ID))
}

func (n *NopProducer) ProduceSupplier(eventType EventType, supplier *models.Supplier) {
	n.logger.Debug("Discarding event", zap.String("event_type", string(eventType)), zap.Int64("supplier_id", supplier.ID))
}

func (n *NopProducer) Close() {}

package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mohitrana7/Stock-Predictor/pkg/models"
)

// KafkaWriter abstracts the producer so tests can substitute a recorder.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink mirrors every broadcast quote onto a Kafka topic, keyed by
// symbol so per-symbol ordering survives partitioning. Downstream consumers
// (alerting, persistence) hang off this topic without touching the gateway.
type KafkaSink struct {
	writer KafkaWriter
}

func NewKafkaSink(writer KafkaWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// NewWriter builds the production writer. Async mode keeps the scheduler
// tick from blocking on broker round-trips.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}
}

func (s *KafkaSink) Publish(ctx context.Context, q *models.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(q.Symbol),
		Value: payload,
	})
}

func (s *KafkaSink) Close() error { return s.writer.Close() }

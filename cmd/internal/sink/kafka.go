package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
)

var _ Writer = (*KafkaWriter)(nil)

// Record is the Kafka message value: the wire envelope plus ordering data.
type Record struct {
	Type      protocol.MessageType `json:"type"`
	Data      interface{}          `json:"data"`
	SeqID     int64                `json:"seq_id"`    // monotonic counter per isin
	Timestamp int64                `json:"timestamp"` // unix micro
}

// KafkaWriter exports every event keyed by isin, so one instrument's events
// land on one partition in order. Only the dispatcher worker calls Write.
type KafkaWriter struct {
	producer KafkaProducer
	now      func() time.Time
	seq      map[string]int64
}

func NewKafkaWriter(producer KafkaProducer) *KafkaWriter {
	return &KafkaWriter{producer: producer, now: time.Now, seq: make(map[string]int64)}
}

// NewKafkaProducer builds the async, batching writer used in production.
func NewKafkaProducer(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		// Optimization: Send batches to reduce network IO
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}
}

func (k *KafkaWriter) Name() string { return "kafka" }

func (k *KafkaWriter) Write(ctx context.Context, ev protocol.Event) error {
	isin := ev.ISIN()
	k.seq[isin]++

	env := ev.Envelope()
	payload, err := json.Marshal(Record{
		Type:      env.Type,
		Data:      env.Data,
		SeqID:     k.seq[isin],
		Timestamp: k.now().UnixMicro(),
	})
	if err != nil {
		return fmt.Errorf("marshal kafka record: %w", err)
	}

	return k.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(isin), // Key ensures partition ordering
		Value: payload,
	})
}

func (k *KafkaWriter) Close() error { return k.producer.Close() }

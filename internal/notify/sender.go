package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Sender delivers one message to the outbound transport. Implementations must
// be safe for concurrent use; the dispatcher fans out across goroutines.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// KafkaSender publishes message events to the topic the external WhatsApp
// gateway consumes. Produce-only; delivery retries belong to the gateway.
type KafkaSender struct {
	client *kgo.Client
	topic  string
}

func NewKafkaSender(brokers []string, topic string) (*KafkaSender, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaSender{client: client, topic: topic}, nil
}

type messageEvent struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Kind      string `json:"kind"`
}

func (s *KafkaSender) Send(ctx context.Context, msg Message) error {
	value, err := json.Marshal(messageEvent{
		Recipient: msg.Recipient,
		Body:      msg.Body,
		Kind:      string(msg.Kind),
	})
	if err != nil {
		return fmt.Errorf("marshal message event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(msg.Recipient),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce message event: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() {
	s.client.Close()
}

// LogSender is the development transport: it only logs.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "outbound message",
		"recipient", msg.Recipient,
		"kind", string(msg.Kind),
		"body_len", len(msg.Body),
	)
	return nil
}

// MemorySender records messages for tests. FailFor makes sends to a given
// recipient fail, exercising partial-success paths.
type MemorySender struct {
	mu      sync.Mutex
	sent    []Message
	failFor map[string]error
}

func NewMemorySender() *MemorySender {
	return &MemorySender{failFor: make(map[string]error)}
}

func (s *MemorySender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[msg.Recipient]; ok {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *MemorySender) FailFor(recipient string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFor[recipient] = err
}

func (s *MemorySender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message{}, s.sent...)
}

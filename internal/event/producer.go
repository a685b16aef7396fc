package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Publisher is implemented by Producer and Nop.
type Publisher interface {
	PublishAttendance(ctx context.Context, e AttendanceEvent) error
	PublishStageChanged(ctx context.Context, e StageChangedEvent) error
	Close() error
}

type ProducerConfig struct {
	TopicAttendance string
	TopicStages     string
	Source          string
}

// Producer publishes domain events to Kafka through a synchronous producer.
type Producer struct {
	sp              sarama.SyncProducer
	topicAttendance string
	topicStages     string
	source          string
	now             func() time.Time
	log             zerolog.Logger
}

func NewProducer(sp sarama.SyncProducer, cfg ProducerConfig, log zerolog.Logger) *Producer {
	return &Producer{
		sp:              sp,
		topicAttendance: cfg.TopicAttendance,
		topicStages:     cfg.TopicStages,
		source:          cfg.Source,
		now:             time.Now,
		log:             log.With().Str("component", "EventProducer").Logger(),
	}
}

// NewSyncProducer dials the brokers with idempotent, all-acks delivery.
func NewSyncProducer(brokers []string, clientID string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond

	return sarama.NewSyncProducer(brokers, cfg)
}

func (p *Producer) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

func (p *Producer) PublishAttendance(ctx context.Context, e AttendanceEvent) error {
	kind := "attendance." + e.EventType
	return publish(ctx, p, p.topicAttendance, e.UserID, kind, e)
}

func (p *Producer) PublishStageChanged(ctx context.Context, e StageChangedEvent) error {
	return publish(ctx, p, p.topicStages, e.CandidateID, "stage.changed", e)
}

func publish[T any](ctx context.Context, p *Producer, topic, key, kind string, payload T) error {
	messageID := uuid.NewString()
	body, err := json.Marshal(Envelope[T]{
		Kind:      kind,
		MessageID: messageID,
		Payload:   payload,
		Timestamp: p.now().UTC(),
		Source:    p.source,
	})
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	return p.send(ctx, topic, key, body, map[string]string{
		"event-kind":   kind,
		"message-id":   messageID,
		"source":       p.source,
		"content-type": "application/json",
	})
}

func (p *Producer) send(_ context.Context, topic, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Int("bytes", len(value)).
			Msg("failed to send kafka message")
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.log.Debug().
		Str("topic", topic).
		Str("key", key).
		Int32("partition", part).
		Int64("offset", off).
		Msg("kafka message sent")
	return nil
}

// Nop discards events. It is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishAttendance(context.Context, AttendanceEvent) error     { return nil }
func (Nop) PublishStageChanged(context.Context, StageChangedEvent) error { return nil }
func (Nop) Close() error                                                { return nil }

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/transport/kafka"
)

var newSyncProducer = sarama.NewSyncProducer

// NewSyncProducer creates a sarama producer that waits for all in-sync
// replicas. Retries are left to RetryingSender.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 0
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return newSyncProducer(brokers, cfg)
}

// KafkaSender publishes notification events to a topic, keyed by recipient so
// one staff member's events stay ordered.
type KafkaSender struct {
	producer sarama.SyncProducer
	topic    string
	newID    func() string
}

// NewKafkaSender creates a KafkaSender.
func NewKafkaSender(producer sarama.SyncProducer, topic string) *KafkaSender {
	return &KafkaSender{
		producer: producer,
		topic:    topic,
		newID:    func() string { return uuid.NewString() },
	}
}

// Deliver implements Sender.
func (s *KafkaSender) Deliver(ctx context.Context, ev domain.NotificationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := ev.EventID
	if id == "" {
		id = s.newID()
	}
	payload, err := json.Marshal(kafka.FromDomain(id, ev))
	if err != nil {
		return kafka.Permanent(fmt.Errorf("encode notification: %w", err))
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.StaffID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(kafka.HeaderEventID), Value: []byte(id)},
			{Key: []byte(kafka.HeaderKind), Value: []byte(ev.Kind)},
		},
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		if isPermanentProducerError(err) {
			return kafka.Permanent(fmt.Errorf("publish notification: %w", err))
		}
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Close closes the underlying producer.
func (s *KafkaSender) Close() error {
	return s.producer.Close()
}

func isPermanentProducerError(err error) bool {
	return errors.Is(err, sarama.ErrMessageSizeTooLarge) ||
		errors.Is(err, sarama.ErrInvalidMessage) ||
		errors.Is(err, sarama.ErrUnknownTopicOrPartition)
}

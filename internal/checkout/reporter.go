package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

// OrderReporter hands a successful checkout to whatever collaborator will
// create the order record. The core never retries; a failed report is
// surfaced as a notification and nothing else.
type OrderReporter interface {
	ReportOrder(ctx context.Context, order domain.CompletedOrder) error
}

// KafkaReporter publishes order-completed events, fused through a circuit
// breaker so a dead broker fails fast instead of stalling checkouts.
type KafkaReporter struct {
	writer  *kafka.Writer
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewKafkaReporter(brokers ...string) *KafkaReporter {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-completed",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name: "order-reporter",
	})

	return &KafkaReporter{writer: w, breaker: cb}
}

func (r *KafkaReporter) ReportOrder(ctx context.Context, order domain.CompletedOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.SessionID), // session id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order-completed")},
		},
	}

	_, err = r.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, r.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to publish order: %w", err)
	}

	return nil
}

func (r *KafkaReporter) Close() error {
	return r.writer.Close()
}

package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

func sampleEvent() domain.TransactionEvent {
	return domain.TransactionEvent{
		TransactionID: "tx-1",
		Owner:         "owner-1",
		Kind:          domain.KindTransfer,
		Amount:        domain.MustAmount("100"),
		Balance:       domain.MustAmount("400"),
		Timestamp:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_SendsJSONPayload(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got map[string]any
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got["transaction_id"] != "tx-1" || got["type"] != "transfer" {
			return fmt.Errorf("unexpected payload: %s", val)
		}
		if got["amount"] != 100.0 || got["balance"] != 400.0 {
			return fmt.Errorf("unexpected amounts: %s", val)
		}
		return nil
	})

	pub := NewKafkaPublisher(producer, "")
	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestKafkaPublisher_PropagatesFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisher(producer, DefaultTopic)
	err := pub.Publish(context.Background(), sampleEvent())
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("expected ErrOutOfBrokers, got %v", err)
	}
	_ = pub.Close()
}

func TestLogPublisher_NeverFails(t *testing.T) {
	pub := NewLogPublisher(zerolog.Nop())
	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

package kafka

import (
	"time"

	ck "github.com/confluentinc/confluent-kafka-go/kafka"
)

// Consumer is the subset of the confluent kafka consumer the delivery
// adapter needs.
type Consumer interface {
	SubscribeTopics(topics []string, rebalanceCb ck.RebalanceCb) (err error)
	ReadMessage(time.Duration) (*ck.Message, error)
	CommitMessage(*ck.Message) ([]ck.TopicPartition, error)
	Close() error
}

// Producer is the subset of the confluent kafka producer the dead letter
// recoverer needs.
type Producer interface {
	Close()
	Produce(*ck.Message, chan ck.Event) error
}

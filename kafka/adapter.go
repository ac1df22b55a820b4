package kafka

import (
	"errors"
	"time"

	ck "github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/peaceman/redeliver-go/retry"
)

type AdapterConfig struct {
	Topics []string

	// MessageIDHeader names the header carrying the message id. Messages
	// without one get a generated id.
	MessageIDHeader string

	// ReadTimeout bounds a single consumer poll; defaults to 100ms.
	ReadTimeout time.Duration
}

// Adapter connects a kafka consumer to a retry executor. Every inbound
// message runs through the executor synchronously on the adapter goroutine,
// including the backoff waits, and is committed once the executor resolves:
// both successful and recovered deliveries count as handled, so the broker
// never redelivers because local retries were exhausted.
//
// A consumer with long backoff schedules has to stay within the broker's
// poll interval limits, or the broker will rebalance and redeliver
// independently of this adapter.
type Adapter struct {
	Config   AdapterConfig
	Consumer Consumer
	Executor *retry.Executor
	Logger   hclog.Logger
	run      bool
}

func (a *Adapter) Start() (<-chan interface{}, error) {
	if a.Executor == nil {
		return nil, errors.New("missing delivery executor")
	}

	if err := a.Consumer.SubscribeTopics(a.Config.Topics, nil); err != nil {
		return nil, err
	}

	a.run = true
	doneChan := make(chan interface{})

	go func() {
		for a.run {
			msg, err := a.Consumer.ReadMessage(a.readTimeout())
			if IsReadTimeout(msg, err) {
				continue
			}

			if err != nil {
				a.logger().Error("consumer error", "error", err)
				continue
			}

			outcome := a.Executor.Deliver(a.convertMessage(msg))

			if _, err := a.Consumer.CommitMessage(msg); err != nil {
				a.logger().Error(
					"failed to commit message",
					"topic", topicName(msg),
					"outcome", outcome,
					"error", err,
				)
			} else {
				a.logger().Debug(
					"message handled",
					"topic", topicName(msg),
					"outcome", outcome,
				)
			}
		}

		close(doneChan)
	}()

	return doneChan, nil
}

func (a *Adapter) Stop() {
	a.run = false
}

func (a *Adapter) convertMessage(msg *ck.Message) *retry.Message {
	id := string(SearchHeaderValue(msg.Headers, a.Config.MessageIDHeader))
	if id == "" {
		id = uuid.NewString()
	}

	return &retry.Message{
		ID:      id,
		Topic:   topicName(msg),
		Key:     msg.Key,
		Headers: HeaderMap(msg.Headers),
		Body:    retry.NewBytesBody(msg.Value),
	}
}

func (a *Adapter) readTimeout() time.Duration {
	if a.Config.ReadTimeout > 0 {
		return a.Config.ReadTimeout
	}

	return time.Millisecond * 100
}

func (a *Adapter) logger() hclog.Logger {
	if a.Logger != nil {
		return a.Logger
	}

	return hclog.Default()
}

func topicName(msg *ck.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}

	return *msg.TopicPartition.Topic
}

package kafka

import (
	"errors"
	"fmt"
	"time"

	ck "github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/hashicorp/go-hclog"
	"github.com/peaceman/redeliver-go/retry"
)

// Header names attached to dead lettered messages.
type DeadLetterHeaderConfig struct {
	Error       string
	OriginTopic string
}

type DeadLetterRecovererConfig struct {
	Topic                 string
	HeaderNames           DeadLetterHeaderConfig
	DeliveryReportTimeout time.Duration
}

// DeadLetterRecoverer republishes exhausted messages to a dead letter topic,
// annotated with the last attempt error and the origin topic. The original
// headers, key, and payload are preserved.
type DeadLetterRecoverer struct {
	Config   DeadLetterRecovererConfig
	Producer Producer
	Logger   hclog.Logger
}

func (r *DeadLetterRecoverer) Recover(msg *retry.Message, lastErr error) error {
	value, err := msg.BodyBytes()
	if err != nil {
		return fmt.Errorf("read message body: %w", err)
	}

	headers := make(map[string][]byte, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[r.errorHeaderName()] = []byte(lastErr.Error())
	headers[r.originTopicHeaderName()] = []byte(msg.Topic)

	topic := r.Config.Topic
	pmsg := &ck.Message{
		TopicPartition: ck.TopicPartition{
			Topic:     &topic,
			Partition: ck.PartitionAny,
		},
		Key:     msg.Key,
		Value:   value,
		Headers: HeadersFromMap(headers),
	}

	deliveryChan := make(chan ck.Event)
	if err := r.Producer.Produce(pmsg, deliveryChan); err != nil {
		return err
	}

	select {
	case deliveryReport := <-deliveryChan:
		deliveryMessage := deliveryReport.(*ck.Message)
		if err := deliveryMessage.TopicPartition.Error; err != nil {
			return err
		}
	case <-time.After(r.deliveryReportTimeout()):
		return errors.New("waiting for the delivery report timed out")
	}

	r.logger().Info(
		"dead lettered message",
		"message", msg.ID,
		"originTopic", msg.Topic,
		"topic", r.Config.Topic,
	)

	return nil
}

func (r *DeadLetterRecoverer) errorHeaderName() string {
	if r.Config.HeaderNames.Error != "" {
		return r.Config.HeaderNames.Error
	}

	return "x-dead-letter-error"
}

func (r *DeadLetterRecoverer) originTopicHeaderName() string {
	if r.Config.HeaderNames.OriginTopic != "" {
		return r.Config.HeaderNames.OriginTopic
	}

	return "x-dead-letter-origin-topic"
}

func (r *DeadLetterRecoverer) deliveryReportTimeout() time.Duration {
	if r.Config.DeliveryReportTimeout > 0 {
		return r.Config.DeliveryReportTimeout
	}

	return 5 * time.Second
}

func (r *DeadLetterRecoverer) logger() hclog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return hclog.Default()
}

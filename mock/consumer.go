package mock

import (
	"sync"
	"time"

	ck "github.com/confluentinc/confluent-kafka-go/kafka"
)

func CreateReadMessageFnFromMessageQueue(
	mq []*ck.Message,
) (func(time.Duration) (*ck.Message, error), *sync.WaitGroup) {
	wg := &sync.WaitGroup{}
	wg.Add(len(mq))

	return func(d time.Duration) (*ck.Message, error) {
		if len(mq) != 0 {
			m := mq[0]
			mq = mq[1:]

			wg.Done()

			return m, nil
		} else {
			return nil, NewReadTimeoutError()
		}
	}, wg
}

type KafkaConsumer struct {
	SubscribeTopicsFn      func([]string, ck.RebalanceCb) error
	SubscribeTopicsInvoked bool

	ReadMessageFn      func(time.Duration) (*ck.Message, error)
	ReadMessageInvoked bool

	CommitMessageFn      func(*ck.Message) ([]ck.TopicPartition, error)
	CommitMessageInvoked bool

	CloseFn      func() error
	CloseInvoked bool
}

func (c *KafkaConsumer) SubscribeTopics(topics []string, rebalanceCb ck.RebalanceCb) error {
	c.SubscribeTopicsInvoked = true

	return c.SubscribeTopicsFn(topics, rebalanceCb)
}

func (c *KafkaConsumer) ReadMessage(timeout time.Duration) (*ck.Message, error) {
	c.ReadMessageInvoked = true

	return c.ReadMessageFn(timeout)
}

func (c *KafkaConsumer) CommitMessage(msg *ck.Message) ([]ck.TopicPartition, error) {
	c.CommitMessageInvoked = true

	if c.CommitMessageFn != nil {
		return c.CommitMessageFn(msg)
	} else {
		return make([]ck.TopicPartition, 0), nil
	}
}

func (c *KafkaConsumer) Close() error {
	c.CloseInvoked = true

	return c.CloseFn()
}

func NewKafkaConsumer() *KafkaConsumer {
	return &KafkaConsumer{
		ReadMessageFn: func(d time.Duration) (*ck.Message, error) {
			return nil, NewReadTimeoutError()
		},
		SubscribeTopicsFn: func(s []string, rc ck.RebalanceCb) error {
			return nil
		},
		CloseFn: func() error {
			return nil
		},
	}
}

func NewReadTimeoutError() error {
	return ck.NewError(ck.ErrTimedOut, "read message timeout", false)
}

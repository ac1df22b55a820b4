package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/peaceman/redeliver-go/retry"
)

var ctx = context.Background()

// Stores dead lettered messages in redis lists keyed by the origin topic,
// $prefix:redeliver:dead-letters:$topic. Each entry is a JSON document that
// carries the message together with the error of its final delivery attempt.
type RedisDeadLetterStore struct {
	Redis  *redis.Client
	Config *RedisDeadLetterStoreConfig

	// Now provides the entry timestamps; defaults to time.Now.
	Now func() time.Time
}

type RedisDeadLetterStoreConfig struct {
	KeyPrefix string
}

type deadLetterEntry struct {
	ID         string            `json:"id"`
	Topic      string            `json:"topic"`
	Key        string            `json:"key,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       []byte            `json:"body,omitempty"`
	Error      string            `json:"error"`
	RecordedAt string            `json:"recordedAt"`
}

func (s *RedisDeadLetterStore) Recover(msg *retry.Message, lastErr error) error {
	body, err := msg.BodyBytes()
	if err != nil {
		return err
	}

	entry := deadLetterEntry{
		ID:         msg.ID,
		Topic:      msg.Topic,
		Key:        string(msg.Key),
		Headers:    headerStrings(msg.Headers),
		Body:       body,
		Error:      lastErr.Error(),
		RecordedAt: s.now().Format(time.RFC3339),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return s.Redis.LPush(ctx, s.key(msg.Topic), payload).Err()
}

func (s *RedisDeadLetterStore) key(topic string) string {
	return strings.TrimLeft(fmt.Sprintf(
		"%s:redeliver:dead-letters:%s",
		s.keyPrefix(),
		topic,
	), ":")
}

func (s *RedisDeadLetterStore) keyPrefix() string {
	if s.Config != nil {
		return s.Config.KeyPrefix
	}

	return ""
}

func (s *RedisDeadLetterStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}

	return time.Now()
}

func headerStrings(headers map[string][]byte) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	m := make(map[string]string, len(headers))
	for k, v := range headers {
		m[k] = string(v)
	}

	return m
}

package redis

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/peaceman/redeliver-go/retry"
)

var recordedAt = time.Date(2021, time.June, 1, 12, 0, 0, 0, time.UTC)

func createExhaustedMessage() *retry.Message {
	return &retry.Message{
		ID:    "msg-1",
		Topic: "pri-a",
		Key:   []byte("dis is msg key"),
		Headers: map[string][]byte{
			"trace-id": []byte("dis is trace id"),
		},
		Body: retry.NewBytesBody([]byte("dis is msg value")),
	}
}

func expectedEntryPayload(t *testing.T, lastErr error) []byte {
	t.Helper()

	payload, err := json.Marshal(deadLetterEntry{
		ID:    "msg-1",
		Topic: "pri-a",
		Key:   "dis is msg key",
		Headers: map[string]string{
			"trace-id": "dis is trace id",
		},
		Body:       []byte("dis is msg value"),
		Error:      lastErr.Error(),
		RecordedAt: recordedAt.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatal(err)
	}

	return payload
}

func TestDeadLetterStore_Recover(t *testing.T) {
	store, mock := setupDeadLetterStore()
	lastErr := errors.New("forced handler error")

	t.Run("regular", func(t *testing.T) {
		mock.ExpectLPush(
			"redeliver:dead-letters:pri-a",
			expectedEntryPayload(t, lastErr),
		).SetVal(1)

		if err := store.Recover(createExhaustedMessage(), lastErr); err != nil {
			t.Error(err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("error propagation", func(t *testing.T) {
		mock.ExpectLPush(
			"redeliver:dead-letters:pri-a",
			expectedEntryPayload(t, lastErr),
		).SetErr(errors.New("forced error"))

		if err := store.Recover(createExhaustedMessage(), lastErr); err == nil {
			t.Fatal("Expected propagated redis error")
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestDeadLetterStore_KeyPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisDeadLetterStore{
		Redis:  db,
		Config: &RedisDeadLetterStoreConfig{KeyPrefix: "foo"},
		Now:    func() time.Time { return recordedAt },
	}
	lastErr := errors.New("forced handler error")

	mock.ExpectLPush(
		"foo:redeliver:dead-letters:pri-a",
		expectedEntryPayload(t, lastErr),
	).SetVal(1)

	if err := store.Recover(createExhaustedMessage(), lastErr); err != nil {
		t.Error(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func setupDeadLetterStore() (*RedisDeadLetterStore, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	store := &RedisDeadLetterStore{
		Redis: db,
		Now:   func() time.Time { return recordedAt },
	}

	return store, mock
}

package kafka

import (
	"sort"

	ck "github.com/confluentinc/confluent-kafka-go/kafka"
)

func SearchHeaderValue(headers []ck.Header, key string) []byte {
	for _, h := range headers {
		if h.Key == key {
			return h.Value
		}
	}

	return nil
}

// HeaderMap converts kafka headers into a map, keeping the last value of
// repeated header keys.
func HeaderMap(headers []ck.Header) map[string][]byte {
	if len(headers) == 0 {
		return nil
	}

	m := make(map[string][]byte, len(headers))
	for _, h := range headers {
		m[h.Key] = h.Value
	}

	return m
}

// HeadersFromMap converts a header map back into kafka headers, ordered by
// key so republished messages are deterministic.
func HeadersFromMap(m map[string][]byte) []ck.Header {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]ck.Header, 0, len(m))
	for _, k := range keys {
		headers = append(headers, ck.Header{Key: k, Value: m[k]})
	}

	return headers
}

func IsReadTimeout(msg *ck.Message, err error) bool {
	if err == nil {
		return false
	}

	kafkaError, ok := err.(ck.Error)
	if !ok {
		return false
	}

	return kafkaError.Code() == ck.ErrTimedOut
}

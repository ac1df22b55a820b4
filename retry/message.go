package retry

import (
	"bytes"
	"io"
)

// Message is a single in-flight delivery. It is owned exclusively by the
// executor for the duration of one delivery; attempts for the same message
// are strictly sequential.
type Message struct {
	ID      string
	Topic   string
	Key     []byte
	Headers map[string][]byte

	// Body carries the payload. Stream-like bodies are consumed by the
	// downstream handler; if the body additionally implements Resettable
	// the executor rewinds it between attempts so every attempt reads
	// from the start.
	Body io.Reader
}

// BodyBytes reads the full body content, rewinding it first when it is
// resettable. Recoverers use it to get at the payload regardless of how much
// of it the failed attempts consumed.
func (m *Message) BodyBytes() ([]byte, error) {
	if m.Body == nil {
		return nil, nil
	}

	if r, ok := m.Body.(Resettable); ok {
		if err := r.Reset(); err != nil {
			return nil, err
		}
	}

	return io.ReadAll(m.Body)
}

// Resettable is the capability of a message body to rewind its read cursor
// to the beginning. Bodies without it are retried as-is.
type Resettable interface {
	Reset() error
}

// BytesBody is an in-memory message body that supports replay.
type BytesBody struct {
	*bytes.Reader

	buf []byte
}

func NewBytesBody(p []byte) *BytesBody {
	return &BytesBody{
		Reader: bytes.NewReader(p),
		buf:    p,
	}
}

// Reset rewinds the read cursor to the start of the body.
func (b *BytesBody) Reset() error {
	_, err := b.Seek(0, io.SeekStart)

	return err
}

// Bytes returns the full body content, independent of the read cursor.
func (b *BytesBody) Bytes() []byte {
	return b.buf
}

package retry

// Handler is the downstream message handler the executor delivers to. It is
// supplied by the surrounding application wiring and opaque to this package.
type Handler interface {
	Handle(*Message) error
}

type HandlerFunc func(*Message) error

func (fn HandlerFunc) Handle(m *Message) error {
	return fn(m)
}

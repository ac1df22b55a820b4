package retry

// Recoverer is invoked at most once per delivery, after the final permitted
// attempt has failed. It receives the exhausted message together with the
// error of the last attempt and decides what happens to the message, for
// example routing it to a dead letter destination.
//
// A shared Recoverer must be safe for concurrent use.
type Recoverer interface {
	Recover(msg *Message, lastErr error) error
}

type RecovererFunc func(*Message, error) error

func (fn RecovererFunc) Recover(m *Message, lastErr error) error {
	return fn(m, lastErr)
}

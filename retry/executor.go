package retry

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Outcome is the terminal result of one delivery.
type Outcome int

const (
	// OutcomeSuccess means the downstream handler accepted the message.
	OutcomeSuccess Outcome = iota + 1

	// OutcomeRecovered means all attempts failed and the message was handed
	// to the recoverer, or discarded when none is configured.
	OutcomeRecovered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRecovered:
		return "recovered"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Executor drives the attempt loop for a single message: it invokes the
// downstream handler, rewinds resettable bodies between attempts, waits out
// the backoff, and delegates to the Recoverer once attempts are exhausted.
//
// An Executor holds no per delivery state and may be shared by any number of
// concurrent deliveries; each Deliver call runs entirely on the calling
// goroutine, including the backoff waits.
type Executor struct {
	Config Config
	Next   Handler

	// Recoverer takes the message once attempts are exhausted. When nil,
	// exhausted messages are discarded with a warning.
	Recoverer Recoverer

	Logger hclog.Logger
}

// NewExecutor validates the configuration and builds an executor delivering
// to next. Optional collaborators (Recoverer, Logger) are set on the returned
// value.
func NewExecutor(config Config, next Handler) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Executor{
		Config: config,
		Next:   next,
	}, nil
}

// Deliver runs the message through the attempt loop and always resolves to a
// terminal outcome. Attempt errors never escape: the caller only ever
// observes Success or Recovered, so whatever owns transport acknowledgment
// can treat both as handled.
func (e *Executor) Deliver(msg *Message) Outcome {
	for attempt := 1; ; attempt++ {
		err := e.Next.Handle(msg)
		if err == nil {
			return OutcomeSuccess
		}

		e.logger().Error(
			"delivery attempt failed",
			"message", msg.ID,
			"topic", msg.Topic,
			"attempt", attempt,
			"maxAttempts", e.Config.MaxAttempts,
			"error", err,
		)

		if !ShouldRetry(attempt, err, e.Config) {
			e.recover(msg, err)

			return OutcomeRecovered
		}

		if rerr := e.resetBody(msg); rerr != nil {
			// Without a rewound body the next attempt would read a partly
			// consumed payload, so give the message up instead of retrying.
			e.recover(msg, fmt.Errorf("reset message body: %v (attempt error: %w)", rerr, err))

			return OutcomeRecovered
		}

		delay := Delay(attempt, e.Config)

		e.logger().Debug(
			"waiting before next delivery attempt",
			"message", msg.ID,
			"attempt", attempt,
			"delay", delay,
		)

		time.Sleep(delay)
	}
}

func (e *Executor) resetBody(msg *Message) error {
	r, ok := msg.Body.(Resettable)
	if !ok {
		return nil
	}

	return r.Reset()
}

func (e *Executor) recover(msg *Message, lastErr error) {
	if e.Recoverer == nil {
		e.logger().Warn(
			"no message recoverer configured, discarding message",
			"message", msg.ID,
			"topic", msg.Topic,
			"error", lastErr,
		)

		return
	}

	if err := e.Recoverer.Recover(msg, lastErr); err != nil {
		e.logger().Error(
			"message recoverer failed",
			"message", msg.ID,
			"topic", msg.Topic,
			"error", err,
		)
	}
}

func (e *Executor) logger() hclog.Logger {
	if e.Logger != nil {
		return e.Logger
	}

	return hclog.Default()
}

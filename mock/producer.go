package mock

import ck "github.com/confluentinc/confluent-kafka-go/kafka"

// KafkaProducer doubles the kafka producer. Without a ProduceFn it reports
// every message as delivered.
type KafkaProducer struct {
	ProduceFn      func(*ck.Message, chan ck.Event) error
	ProduceInvoked bool

	CloseFn      func()
	CloseInvoked bool
}

func (p *KafkaProducer) Produce(m *ck.Message, reportChan chan ck.Event) error {
	p.ProduceInvoked = true

	if p.ProduceFn != nil {
		return p.ProduceFn(m, reportChan)
	}

	go func() {
		reportChan <- &ck.Message{}
	}()

	return nil
}

func (p *KafkaProducer) Close() {
	p.CloseInvoked = true

	if p.CloseFn != nil {
		p.CloseFn()
	}
}

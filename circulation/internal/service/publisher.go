package service

import (
	"encoding/json"

	"github.com/IBM/sarama"
)

type publisherImpl struct {
	producer sarama.SyncProducer
}

// NewPublisher wraps a sarama sync producer. A nil producer disables
// event publishing entirely.
func NewPublisher(producer sarama.SyncProducer) Publisher {
	if producer == nil {
		return nil
	}
	return &publisherImpl{producer: producer}
}

func (p *publisherImpl) Publish(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"group-chat-service/internal/models"

	"github.com/IBM/sarama"
)

// KafkaArchiver copies every broadcast event onto a Kafka topic, keyed by
// group id so one group's events stay in partition order. The analytics
// consumers read from there.
type KafkaArchiver struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaArchiver(brokers []string, topic string) (*KafkaArchiver, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = "group-chat-service"

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &KafkaArchiver{producer: producer, topic: topic}, nil
}

func (a *KafkaArchiver) Archive(_ context.Context, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, _, err = a.producer.SendMessage(&sarama.ProducerMessage{
		Topic: a.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.GroupID), 10)),
		Value: sarama.ByteEncoder(data),
	})
	return err
}

func (a *KafkaArchiver) Close() error {
	return a.producer.Close()
}

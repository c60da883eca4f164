package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/dessertly/ordersync/internal/models"
)

type KafkaOutput struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaOutput(config *models.Config) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(config.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	return &KafkaOutput{producer: producer, topic: config.KafkaTopic}, nil
}

func (k *KafkaOutput) WriteOrder(order models.Order) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}

	msg, err := json.Marshal(order)
	if err != nil {
		return err
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(order.DBID),
		Value: sarama.ByteEncoder(msg),
	})
	return err
}

func (k *KafkaOutput) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}

// NewSink selects the output destination from config: Kafka when enabled,
// otherwise a file format under the output path, otherwise the console.
func NewSink(config *models.Config) (Sink, error) {
	if config.KafkaEnabled {
		return NewKafkaOutput(config)
	}
	if config.OutputPath != "" {
		switch config.OutputFormat {
		case "parquet":
			return NewParquetOutput(config)
		case "json":
			return NewJSONOutput(config.OutputPath, config.OutputFolder), nil
		case "csv":
			return NewCSVOutput(config.OutputPath, config.OutputFolder), nil
		default:
			return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
		}
	}
	return &ConsoleOutput{}, nil
}

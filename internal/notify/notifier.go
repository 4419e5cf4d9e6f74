package notify

import (
	"encoding/json"
	"strings"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

// Message is one outbound notification: who to tell, which template to
// render downstream, and the payload for it.
type Message struct {
	Recipient string         `json:"recipient"`
	Template  string         `json:"template"`
	Data      map[string]any `json:"data"`
}

// Notifier publishes notifications to Kafka. Delivery is fire-and-forget:
// failures are logged and counted, never returned to the engine. A nil
// *Notifier is a no-op, mirroring an unconfigured sink.
type Notifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
	failures prometheus.Counter
}

// New creates a Kafka-backed Notifier. Without brokers or a topic it
// returns nil, and every Notify call becomes a no-op.
func New(brokers []string, topic string, logger logx.Logger, failures prometheus.Counter) (*Notifier, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Notifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
		failures: failures,
	}, nil
}

// Notify publishes one message. Call it only after the surrounding
// transaction has committed.
func (n *Notifier) Notify(msg Message) {
	if n == nil {
		return
	}

	value, err := json.Marshal(msg)
	if err != nil {
		n.fail("notification encode failed", msg, err)
		return
	}

	_, _, err = n.producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(msg.Recipient),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		n.fail("notification publish failed", msg, err)
	}
}

func (n *Notifier) fail(what string, msg Message, err error) {
	if n.failures != nil {
		n.failures.Inc()
	}
	n.logger.Error(what,
		logx.String("recipient", msg.Recipient),
		logx.String("template", msg.Template),
		logx.Err(err),
	)
}

// Close shuts down the underlying producer.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	return n.producer.Close()
}

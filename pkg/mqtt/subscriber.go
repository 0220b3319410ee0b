package mqtt

import (
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"homesense/pkg/common"
	"homesense/pkg/hub"
	"homesense/pkg/metrics"
)

// Subscriber is the single logical consumer of the transport. Each
// delivery is handled inline: one parse plus at most one storage
// write, nothing else is queued in the delivery path.
type Subscriber struct {
	client mqtt.Client
	ingest hub.IIngest
	topic  string
}

func NewSubscriber(broker, clientID, topic string, ingest hub.IIngest) *Subscriber {
	s := &Subscriber{
		ingest: ingest,
		topic:  topic,
	}

	logger := common.GetLoggerWith(common.LoggerNameMqttSubscriber)

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	// Subscribing from the connect handler re-establishes the
	// subscription after every reconnect, not just the first one.
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		if token := client.Subscribe(s.topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			s.HandleMessage(msg.Topic(), msg.Payload())
		}); token.Wait() && token.Error() != nil {
			logger.Error("Subscribe failed", zap.String("topic", s.topic), zap.Error(token.Error()))
			return
		}
		logger.Info("Subscribed", zap.String("topic", s.topic))
	})

	s.client = mqtt.NewClient(opts)
	return s
}

func (s *Subscriber) Start() error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

func (s *Subscriber) Close() {
	s.client.Disconnect(250)
}

// HandleMessage processes one inbound delivery. A bad message is
// logged and dropped; it never halts the subscription loop.
func (s *Subscriber) HandleMessage(topic string, payload []byte) {
	logger := common.GetLoggerWith(
		common.LoggerNameMqttSubscriber,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryIngest),
	)

	metrics.MessagesReceived.Inc()

	reading, err := ParseCombinedPayload(payload)
	if errors.Is(err, ErrPartialPayload) {
		logger.Debug("Ignoring per-metric payload", zap.String("topic", topic))
		return
	}
	if err != nil {
		metrics.IngestErrors.WithLabelValues(metrics.ErrorKindMalformed).Inc()
		logger.Warn("Dropping malformed payload", zap.String("topic", topic), zap.Error(err))
		return
	}

	if err := s.ingest.StoreReading(reading); err != nil {
		metrics.IngestErrors.WithLabelValues(metrics.ErrorKindStorage).Inc()
		logger.Error("Failed to store reading", zap.String("topic", topic), zap.Error(err))
		return
	}
}

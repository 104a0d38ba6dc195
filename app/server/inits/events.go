package inits

import (
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"user-registration/app/server/constants"
	"user-registration/app/server/events"
)

// Events 没有配置 Kafka 节点时返回不做任何事的发布者
func Events(brokers []string, l *zap.Logger) events.Publisher {
	if len(brokers) == 0 {
		l.Info("no kafka brokers configured, registration events are disabled")
		return events.Nop{}
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  constants.EventTopicUserRegistered,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	return events.NewKafkaPublisher(w, l)
}

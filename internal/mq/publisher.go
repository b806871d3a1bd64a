package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"onionpay-api/internal/dal"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/realtime"
)

const retryHeader = "x-retry-count"

// Publisher 将订单事件发布到 topic exchange（payment.*）
type Publisher struct {
	exchange string
	channel  func() *amqp.Channel
}

func NewPublisher(exchange string) *Publisher {
	return &Publisher{exchange: exchange, channel: dal.GetChannel}
}

// Publish 未连接时静默跳过
func (p *Publisher) Publish(evt realtime.Event) error {
	ch := p.channel()
	if ch == nil {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}
	err = ch.Publish(
		p.exchange,
		evt.Type.RoutingKey(),
		false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Headers:      amqp.Table{retryHeader: int32(0)},
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s failed: %w", evt.Type.RoutingKey(), err)
	}
	return nil
}

// Notify 实现 realtime.Notifier
func (p *Publisher) Notify(_ context.Context, evt realtime.Event) {
	if err := p.Publish(evt); err != nil {
		logger.ErrorLog.Errorf("[MQ] %v", err)
	}
}

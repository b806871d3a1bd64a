package mq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/streadway/amqp"

	"onionpay-api/internal/dal"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/realtime"
)

const maxRetry = 3

// EventHandler 处理一条事件，返回错误时按 maxRetry 重投
type EventHandler func(ctx context.Context, evt realtime.Event) error

// RunAlertConsumer 消费告警队列直到 ctx 结束，通道断开后自动重新订阅
func RunAlertConsumer(ctx context.Context, handle EventHandler) {
	for {
		err := consume(ctx, dal.AlertQueue, handle)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.ErrorLog.Errorf("[MQ] alert consumer stopped: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func consume(ctx context.Context, queue string, handle EventHandler) error {
	ch := dal.GetChannel()
	if ch == nil {
		return errors.New("rabbitmq channel not initialized")
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	logger.InfoLog.Infof("[MQ] consuming %s", queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			handleDelivery(ctx, ch, queue, d, handle)
		}
	}
}

func handleDelivery(ctx context.Context, ch *amqp.Channel, queue string, d amqp.Delivery, handle EventHandler) {
	var evt realtime.Event
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		logger.ErrorLog.Errorf("[MQ] event unmarshal err: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := handle(ctx, evt); err != nil {
		retry := retryCount(d.Headers)
		if retry < maxRetry {
			pubErr := ch.Publish("", queue, false, false, amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Headers:      amqp.Table{retryHeader: int32(retry + 1)},
				Body:         d.Body,
			})
			if pubErr != nil {
				logger.ErrorLog.Errorf("[MQ] requeue failed: %v", pubErr)
				_ = d.Nack(false, true)
				return
			}
			logger.InfoLog.Warnf("[MQ] retrying %s (attempt %d): %v", evt.Type, retry+1, err)
		} else {
			logger.ErrorLog.Errorf("[MQ] max retry reached for %s: %v", evt.Type, err)
		}
	}
	_ = d.Ack(false)
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

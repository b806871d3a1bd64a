package mq

import (
	"testing"

	"github.com/streadway/amqp"

	"onionpay-api/internal/model"
	"onionpay-api/internal/realtime"
)

func eventFixture() realtime.Event {
	return realtime.Event{
		Type: realtime.EventPaymentSubmitted,
		Data: &model.Order{OrderID: "ONP-1-deadbeef", Status: model.OrderStatusPending},
	}
}

func TestRetryCount(t *testing.T) {
	tests := []struct {
		name string
		h    amqp.Table
		want int
	}{
		{"missing", amqp.Table{}, 0},
		{"nil table", nil, 0},
		{"int32", amqp.Table{retryHeader: int32(2)}, 2},
		{"int64", amqp.Table{retryHeader: int64(3)}, 3},
		{"wrong type", amqp.Table{retryHeader: "1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryCount(tt.h); got != tt.want {
				t.Errorf("retryCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublishWithoutChannelIsNoop(t *testing.T) {
	p := &Publisher{exchange: "x", channel: func() *amqp.Channel { return nil }}
	if err := p.Publish(eventFixture()); err != nil {
		t.Errorf("Publish without channel = %v, want nil", err)
	}
}

package realtime

import (
	"context"

	"onionpay-api/internal/logger"
)

// Notifier 事件投递；尽力而为，调用方不关心结果
type Notifier interface {
	Notify(ctx context.Context, evt Event)
}

// NotifierFunc 函数适配
type NotifierFunc func(ctx context.Context, evt Event)

func (f NotifierFunc) Notify(ctx context.Context, evt Event) { f(ctx, evt) }

// Multi 扇出到多个 Notifier，单个 panic 不影响其余
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, evt Event) {
	for _, n := range m {
		if n == nil {
			continue
		}
		notifySafe(ctx, n, evt)
	}
}

func notifySafe(ctx context.Context, n Notifier, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorLog.Errorf("[NOTIFY] notifier panic: type=%s err=%v", evt.Type, r)
		}
	}()
	n.Notify(ctx, evt)
}

// Discard 空实现
var Discard Notifier = NotifierFunc(func(context.Context, Event) {})

package callback

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"onionpay-api/internal/logger"
	"onionpay-api/internal/model"
	"onionpay-api/internal/utils"
	"onionpay-api/internal/utils/timeutil"
)

const (
	HeaderTimestamp = "X-OnionPay-Timestamp"
	HeaderSignature = "X-OnionPay-Signature"
)

// WebhookPayload 审核通过后推送给商户 callbackUrl 的内容
type WebhookPayload struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"` // paise
	Timestamp string `json:"timestamp"`
}

// Webhook 单次投递、不重试；失败只记录日志
type Webhook struct {
	secret  string
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewWebhook secret 为空时不签名
func NewWebhook(secret string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{secret: secret, timeout: timeout, now: time.Now}
}

// Dispatch 异步投递，不阻塞审核请求
func (w *Webhook) Dispatch(order *model.Order) {
	if order == nil || order.CallbackURL == nil || *order.CallbackURL == "" {
		return
	}
	url := *order.CallbackURL
	payload := WebhookPayload{
		OrderID:   order.OrderID,
		Status:    string(model.OrderStatusApproved),
		Amount:    order.Amount,
		Timestamp: timeutil.FormatISO8601Milli(w.now()),
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLog.Errorf("[WEBHOOK] goroutine panic: order=%s err=%v", payload.OrderID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if err := w.Deliver(ctx, url, payload); err != nil {
			logger.ErrorLog.WithFields(map[string]interface{}{
				"order_id": payload.OrderID,
				"url":      url,
			}).Errorf("[WEBHOOK] delivery failed: %v", err)
			return
		}
		logger.InfoLog.Infof("[WEBHOOK] delivered order=%s", payload.OrderID)
	}()
}

// Deliver 同步投递一次
func (w *Webhook) Deliver(ctx context.Context, url string, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	headers := map[string]string{}
	if w.secret != "" {
		ts := strconv.FormatInt(w.now().Unix(), 10)
		headers[HeaderTimestamp] = ts
		headers[HeaderSignature] = utils.GenerateWebhookSign(w.secret, ts, body)
	}

	_, err = utils.HttpPostJson(ctx, url, body, headers, w.timeout)
	return err
}

// Wait 等待在途投递结束（优雅退出、测试）
func (w *Webhook) Wait() {
	w.wg.Wait()
}

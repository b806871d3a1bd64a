package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"onionpay-api/internal/logger"
	"onionpay-api/internal/realtime"
	"onionpay-api/internal/utils"
	"onionpay-api/internal/utils/timeutil"
)

const telegramAPI = "https://api.telegram.org"

type TelegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
	Parse  string `json:"parse_mode"`
}

// Telegram 管理员告警（UTR 提交后提醒人工审核）
type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewTelegram botToken 或 chatID 为空时返回 nil，表示不启用
func NewTelegram(botToken, chatID string) *Telegram {
	if botToken == "" || chatID == "" {
		return nil
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  telegramAPI,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendTelegramMessage 同步发送
func (t *Telegram) SendTelegramMessage(ctx context.Context, content string) error {
	body, _ := json.Marshal(TelegramMessage{ChatID: t.chatID, Text: content, Parse: "MarkdownV2"})
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// HandleEvent 只关心 PAYMENT_SUBMITTED，供 MQ 消费者同步调用
func (t *Telegram) HandleEvent(ctx context.Context, evt realtime.Event) error {
	if evt.Type != realtime.EventPaymentSubmitted || evt.Data == nil {
		return nil
	}
	return t.SendTelegramMessage(ctx, FormatSubmittedAlert(evt))
}

// Notify 未启用 MQ 时直接异步发送
func (t *Telegram) Notify(_ context.Context, evt realtime.Event) {
	if evt.Type != realtime.EventPaymentSubmitted {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLog.Errorf("[TELEGRAM] goroutine panic: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := t.HandleEvent(ctx, evt); err != nil {
			logger.ErrorLog.Errorf("[TELEGRAM] send failed: %v", err)
		}
	}()
}

// FormatSubmittedAlert 告警正文（MarkdownV2）
func FormatSubmittedAlert(evt realtime.Event) string {
	o := evt.Data
	var sb strings.Builder
	sb.WriteString("*" + escapeMarkdown("UTR submitted, review needed") + "*\n")
	sb.WriteString(fmt.Sprintf("*Order:* %s\n", escapeMarkdown(o.OrderID)))
	sb.WriteString(fmt.Sprintf("*Amount:* %s\n", escapeMarkdown("₹"+utils.MinorToMajor(o.Amount).StringFixed(2))))
	if o.UTR != nil {
		sb.WriteString(fmt.Sprintf("*UTR:* `%s`\n", escapeMarkdown(*o.UTR)))
	}
	if o.Description != "" {
		sb.WriteString(fmt.Sprintf("*Description:* %s\n", escapeMarkdown(o.Description)))
	}
	sb.WriteString(fmt.Sprintf("*Expires:* %s\n", escapeMarkdown(timeutil.FormatISO8601(o.ExpiresAt))))
	return sb.String()
}

// escapeMarkdown 转义 Telegram Markdown V2 特殊字符
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(s)
}

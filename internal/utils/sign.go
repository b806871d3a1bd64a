package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const signaturePrefix = "sha256="

// GenerateWebhookSign 计算 webhook 签名：sha256=<hex(HMAC-SHA256(secret, timestamp + "." + body))>
func GenerateWebhookSign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSign 商户侧校验签名（常量时间比较）
func VerifyWebhookSign(secret, timestamp string, body []byte, signature string) bool {
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	expected := GenerateWebhookSign(secret, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhookTimestamp 解析 X-OnionPay-Timestamp（unix 秒）
func ParseWebhookTimestamp(ts string) (time.Time, error) {
	sec, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}

// IsWebhookTimestampFresh 签名时间与 now 的差值在窗口内（允许少量时钟偏差）
func IsWebhookTimestampFresh(ts string, window time.Duration, now time.Time) bool {
	t, err := ParseWebhookTimestamp(ts)
	if err != nil {
		return false
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

package idgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderCodePrefix 对外订单号前缀
const OrderCodePrefix = "ONP"

// NewOrderCode 对外订单号：ONP-<unix 毫秒>-<8 位随机 hex>
func NewOrderCode(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", OrderCodePrefix, now.UnixMilli(), suffix)
}

// RandomHex32 32 位小写 hex，取自 v4 UUID（122 bit 随机）
func RandomHex32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

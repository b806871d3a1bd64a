package timeutil

import (
	"time"
)

// ISO8601Milli 与 JavaScript Date.toISOString 一致的毫秒精度格式
const ISO8601Milli = "2006-01-02T15:04:05.000Z07:00"

// NowUTC 返回当前 UTC 时间
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatISO8601 格式化为 ISO8601 / RFC3339 格式 (2025-10-03T06:45:21Z)
func FormatISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatISO8601Milli 格式化为带毫秒的 ISO8601 (2025-10-03T06:45:21.123Z)
func FormatISO8601Milli(t time.Time) string {
	return t.UTC().Format(ISO8601Milli)
}

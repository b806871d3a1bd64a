package utils

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	amountNoiseRe   = regexp.MustCompile(`[₹$€£¥,\s]`)
	rupeePrefixRe   = regexp.MustCompile(`(?i)^rs\.?`)
	thousandsDotRe  = regexp.MustCompile(`\.(\d{3,})`)
	leadingNumberRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	hundred         = decimal.NewFromInt(100)
	maxNormalizable = decimal.New(1, 15) // 超过该主单位金额视为非法，避免 int64 溢出
)

// NormalizeAmount 将数字或带货币符号的字符串统一转换为最小货币单位（paise）
// 数字：必须有限且 > 0；字符串：去掉 ₹ $ € £ ¥、前缀 Rs、逗号与空白，
// ".ddd"（三位及以上）视为千分位，再按数字前缀解析。无法解析返回 false。
// 浮点数按其最短十进制文本四舍五入到分（远离零），不做二进制乘法：
// 1.005 得 101；float64 直接乘 100 再取整会得到 100。
func NormalizeAmount(input any) (int64, bool) {
	switch v := input.(type) {
	case float64:
		return normalizeFloat(v)
	case float32:
		return normalizeFloat(float64(v))
	case int:
		return normalizeDecimal(decimal.NewFromInt(int64(v)))
	case int32:
		return normalizeDecimal(decimal.NewFromInt(int64(v)))
	case int64:
		return normalizeDecimal(decimal.NewFromInt(v))
	case uint:
		return normalizeDecimal(decimal.NewFromInt(int64(v)))
	case uint32:
		return normalizeDecimal(decimal.NewFromInt(int64(v)))
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return 0, false
		}
		return normalizeDecimal(d)
	case string:
		return normalizeText(v)
	default:
		return 0, false
	}
}

func normalizeFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return normalizeDecimal(decimal.NewFromFloat(f))
}

func normalizeText(s string) (int64, bool) {
	cleaned := amountNoiseRe.ReplaceAllString(s, "")
	cleaned = rupeePrefixRe.ReplaceAllString(cleaned, "")
	cleaned = thousandsDotRe.ReplaceAllString(cleaned, "$1")

	// 只取开头的数字部分，"₹100/-" 之类的写法同样可用
	num := leadingNumberRe.FindString(cleaned)
	if num == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return 0, false
	}
	return normalizeDecimal(d)
}

func normalizeDecimal(d decimal.Decimal) (int64, bool) {
	if !d.IsPositive() || d.GreaterThan(maxNormalizable) {
		return 0, false
	}
	return d.Mul(hundred).Round(0).IntPart(), true
}

// AmountInRange 金额（paise）是否落在 [minMajor, maxMajor] 主单位区间内
func AmountInRange(minor, minMajor, maxMajor int64) bool {
	return minor >= minMajor*100 && minor <= maxMajor*100
}

// MinorToMajor paise -> 卢比
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// MinorToMajorFloat 用于 JSON 响应中的主单位金额
func MinorToMajorFloat(minor int64) float64 {
	return MinorToMajor(minor).InexactFloat64()
}

// FormatRupees 按印度数字分组格式化主单位金额，如 100000 -> ₹1,00,000
func FormatRupees(major int64) string {
	sign := ""
	if major < 0 {
		sign = "-"
		major = -major
	}
	s := strconv.FormatInt(major, 10)
	if len(s) <= 3 {
		return sign + "₹" + s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}

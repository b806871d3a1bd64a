package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// StringOrNumber 请求字段既可传 "12" 也可传 12（productId）
type StringOrNumber string

func (s *StringOrNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = StringOrNumber(strings.TrimSpace(str))
	default:
		// 数字、布尔、对象原样保留，由 Uint 判定是否合法
		*s = StringOrNumber(b)
	}
	return nil
}

// IsBlank nil 或空串视为未传
func (s *StringOrNumber) IsBlank() bool {
	return s == nil || *s == ""
}

// Uint 解析为正整数 ID；0、负数、小数、非数字均返回 false
func (s StringOrNumber) Uint() (uint, bool) {
	n, err := strconv.ParseUint(string(s), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

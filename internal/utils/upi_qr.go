package utils

import (
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// UPIPayURI 构造 UPI 深链：upi://pay?pa=&pn=&am=&cu=&tn=
func UPIPayURI(upiID, payeeName string, amountMinor int64, currency, note string) string {
	q := url.Values{}
	q.Set("pa", upiID)
	if payeeName != "" {
		q.Set("pn", payeeName)
	}
	q.Set("am", MinorToMajor(amountMinor).StringFixed(2))
	q.Set("cu", currency)
	if note != "" {
		q.Set("tn", note)
	}
	return "upi://pay?" + q.Encode()
}

// RenderQRPNG 生成二维码 PNG
func RenderQRPNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

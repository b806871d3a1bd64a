package dto

import (
	"encoding/json"

	"onionpay-api/internal/utils"
)

// CreateSessionReq 创建收银台会话
// amount 可以是数字（卢比）或带货币符号的字符串
type CreateSessionReq struct {
	Amount        json.RawMessage       `json:"amount"`
	PriceText     string                `json:"priceText" binding:"max=64"`
	Description   string                `json:"description" binding:"max=500"`
	ItemName      string                `json:"itemName" binding:"max=200"`
	CustomerEmail string                `json:"customerEmail" binding:"omitempty,email,max=255"`
	CallbackURL   string                `json:"callbackUrl" binding:"omitempty,url,max=500"`
	Currency      string                `json:"currency" binding:"omitempty,len=3,alpha"`
	ProductID     *utils.StringOrNumber `json:"productId"`
}

// IntegrationInfo 金额自动识别信息
type IntegrationInfo struct {
	AutoDetected   bool        `json:"autoDetected"`
	OriginalAmount interface{} `json:"originalAmount"`
	ParsedAmount   float64     `json:"parsedAmount"`
}

// CreateSessionResp 创建会话响应
type CreateSessionResp struct {
	OrderID         string          `json:"orderId"`
	PaymentURL      string          `json:"paymentUrl"`
	Amount          float64         `json:"amount"`
	AmountInPaise   int64           `json:"amountInPaise"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	ItemName        string          `json:"itemName,omitempty"`
	ExpiresAt       string          `json:"expiresAt"`
	QrCodeURL       string          `json:"qrCodeUrl"`
	UpiID           string          `json:"upiId"`
	IntegrationInfo IntegrationInfo `json:"integrationInfo"`
}

// SubmitUTRReq 付款人提交 UTR
type SubmitUTRReq struct {
	OrderID string `json:"orderId" binding:"required,max=64"`
	UTR     string `json:"utr" binding:"required,min=8,max=20"`
}

// StatusResp 公开状态查询
type StatusResp struct {
	Status    string  `json:"status"`
	OrderID   string  `json:"orderId"`
	Amount    int64   `json:"amount"` // paise
	UpdatedAt string  `json:"updatedAt"`
	Rupees    float64 `json:"amountInRupees"`
}

// PaymentPageResp 付款页展示数据
type PaymentPageResp struct {
	OrderID     string  `json:"orderId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	UpiID       string  `json:"upiId"`
	QrCodeURL   string  `json:"qrCodeUrl"`
	UpiURI      string  `json:"upiUri"`
	ExpiresAt   string  `json:"expiresAt"`
	Status      string  `json:"status"`
	HasUTR      bool    `json:"utrSubmitted"`
}

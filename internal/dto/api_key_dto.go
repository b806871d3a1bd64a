package dto

import "time"

// CreateApiKeyReq 管理端申请密钥
type CreateApiKeyReq struct {
	Name string `json:"name" binding:"max=100"`
	Type string `json:"type" binding:"omitempty,oneof=publishable secret"`
}

// ApiKeyView 列表展示，不含哈希
type ApiKeyView struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	KeyHint    string     `json:"keyHint"`
	IsActive   bool       `json:"isActive"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateApiKeyResp 明文只在此返回一次
type CreateApiKeyResp struct {
	Key    string     `json:"key"`
	ApiKey ApiKeyView `json:"apiKey"`
}

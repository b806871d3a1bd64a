package dto

import "encoding/json"

// CreateProductReq price 为卢比（数字或字符串），priceInPaise 为整数 paise，二选一
type CreateProductReq struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Description  string          `json:"description" binding:"max=1000"`
	Price        json.RawMessage `json:"price"`
	PriceInPaise *int64          `json:"priceInPaise"`
}

// UpdateProductReq 部分更新
type UpdateProductReq struct {
	Name         *string         `json:"name" binding:"omitempty,max=200"`
	Description  *string         `json:"description" binding:"omitempty,max=1000"`
	Price        json.RawMessage `json:"price"`
	PriceInPaise *int64          `json:"priceInPaise"`
	IsActive     *bool           `json:"isActive"`
}

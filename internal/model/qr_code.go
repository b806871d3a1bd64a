package model

import "time"

// QrCode 收款账户描述（UPI ID + 可选二维码图片），同一时间只有一条启用
type QrCode struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UpiID     string    `gorm:"column:upi_id;type:varchar(100);not null" json:"upiId"`
	ImageURL  string    `gorm:"column:image_url;type:varchar(500)" json:"imageUrl"`
	IsActive  bool      `gorm:"column:is_active;not null;index" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (QrCode) TableName() string {
	return "qr_codes"
}

package model

import "time"

// ApiKey 商户密钥，仅保存 bcrypt 哈希；等级不单独存储，由 key_hint 保留的前缀决定
type ApiKey struct {
	ID         uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string     `gorm:"column:user_id;type:varchar(64);not null;index" json:"userId"`
	Name       string     `gorm:"column:name;type:varchar(100);not null" json:"name"`
	KeyHash    string     `gorm:"column:key_hash;type:varchar(100);not null" json:"-"`
	KeyHint    string     `gorm:"column:key_hint;type:varchar(32);not null" json:"keyHint"` // 脱敏展示 onp_sk_••••abcd
	IsActive   bool       `gorm:"column:is_active;not null;index" json:"isActive"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"lastUsedAt"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (ApiKey) TableName() string {
	return "api_keys"
}

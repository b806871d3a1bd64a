package model

import "time"

// User 管理员/商户账户，由外部身份系统提供 id
type User struct {
	ID              string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Email           *string   `gorm:"column:email;type:varchar(255)" json:"email"`
	FirstName       *string   `gorm:"column:first_name;type:varchar(100)" json:"firstName"`
	LastName        *string   `gorm:"column:last_name;type:varchar(100)" json:"lastName"`
	ProfileImageURL *string   `gorm:"column:profile_image_url;type:varchar(500)" json:"profileImageUrl"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

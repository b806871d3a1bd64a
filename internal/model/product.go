package model

import "time"

// Product 商品（价格模板），软删除
type Product struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Description string    `gorm:"column:description;type:varchar(1000)" json:"description"`
	Price       int64     `gorm:"column:price;not null" json:"price"` // paise
	IsActive    bool      `gorm:"column:is_active;not null;index" json:"isActive"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

package model

import "time"

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"  // 待支付 / 已提交 UTR 待审核
	OrderStatusApproved OrderStatus = "approved" // 审核通过
	OrderStatusFailed   OrderStatus = "failed"   // 审核拒绝
	OrderStatusExpired  OrderStatus = "expired"  // 超时未支付（读取时惰性标记）
)

// IsTerminal 终态不允许再流转
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusApproved || s == OrderStatusFailed || s == OrderStatusExpired
}

// OrderTTL 订单有效期，创建时确定，之后不再延长
const OrderTTL = 5 * time.Minute

// Order 支付订单
type Order struct {
	ID            uint64      `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`            // 内部ID（snowflake）
	OrderID       string      `gorm:"column:order_id;type:varchar(64);uniqueIndex;not null" json:"orderId"` // 对外订单号 ONP-...
	ProductID     *uint       `gorm:"column:product_id;index" json:"productId,omitempty"`                   // 关联商品
	QrCodeID      uint        `gorm:"column:qr_code_id;not null;index" json:"qrCodeId"`                     // 创建时生效的收款码
	Amount        int64       `gorm:"column:amount;not null" json:"amount"`                                 // 金额（paise）
	Currency      string      `gorm:"column:currency;type:varchar(3);not null" json:"currency"`             // 货币
	Description   string      `gorm:"column:description;type:varchar(500);not null" json:"description"`     // 描述
	CustomerEmail *string     `gorm:"column:customer_email;type:varchar(255)" json:"customerEmail"`         // 付款人邮箱
	CallbackURL   *string     `gorm:"column:callback_url;type:varchar(500)" json:"callbackUrl"`             // 商户回调地址
	Status        OrderStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`          // 状态
	UTR           *string     `gorm:"column:utr;type:varchar(32)" json:"utr"`                               // 付款人提交的 UTR
	ExpiresAt     time.Time   `gorm:"column:expires_at;not null;index" json:"expiresAt"`                    // 过期时间
	ApprovedAt    *time.Time  `gorm:"column:approved_at" json:"approvedAt"`                                 // 审核通过时间
	CreatedAt     time.Time   `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"column:updated_at" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

// IsOverdue pending 且已过期
func (o *Order) IsOverdue(now time.Time) bool {
	return o.Status == OrderStatusPending && !now.Before(o.ExpiresAt)
}

// HasUTR 是否已提交 UTR
func (o *Order) HasUTR() bool {
	return o.UTR != nil && *o.UTR != ""
}

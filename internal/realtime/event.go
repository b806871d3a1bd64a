package realtime

import "onionpay-api/internal/model"

// EventType 推送给管理端的事件类型
type EventType string

const (
	EventPaymentSubmitted EventType = "PAYMENT_SUBMITTED"
	EventPaymentApproved  EventType = "PAYMENT_APPROVED"
	EventPaymentRejected  EventType = "PAYMENT_REJECTED"
)

// RoutingKey MQ 路由键
func (t EventType) RoutingKey() string {
	switch t {
	case EventPaymentSubmitted:
		return "payment.submitted"
	case EventPaymentApproved:
		return "payment.approved"
	case EventPaymentRejected:
		return "payment.rejected"
	default:
		return "payment.unknown"
	}
}

// Event 订单状态变更事件
type Event struct {
	Type EventType    `json:"type"`
	Data *model.Order `json:"data"`
}

package dto

// DashboardStats 仪表盘统计（最近 100 笔订单）
type DashboardStats struct {
	TotalRevenue       int64   `json:"totalRevenue"` // 卢比，四舍五入
	PendingPayments    int     `json:"pendingPayments"`
	SuccessfulPayments int     `json:"successfulPayments"`
	SuccessRate        float64 `json:"successRate"` // 百分比，保留一位小数
	ActiveProducts     int64   `json:"activeProducts"`
	ConnectedAdmins    int     `json:"connectedAdmins"`
}

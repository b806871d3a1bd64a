package cache

// KeyPrefix 所有 redis key 的前缀
const KeyPrefix = "onionpay"

// 仪表盘统计 redis key
const DashboardStatsKey = KeyPrefix + ":dashboard:stats"

// OrderKey 终态订单快照 redis key
func OrderKey(orderID string) string {
	return KeyPrefix + ":order:" + orderID
}

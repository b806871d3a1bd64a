package idgen

import (
	"fmt"

	"onionpay-api/internal/logger"
)

// Init 设置本实例节点号（多实例部署时每个实例配置不同 snowflake.nodeId）
func Init(nodeID int64) error {
	if nodeID < 0 || nodeID > 1023 {
		return fmt.Errorf("invalid snowflake node id: %d", nodeID)
	}
	if err := setNode(nodeID); err != nil {
		return err
	}
	logger.InfoLog.Infof("[IDGEN] snowflake node=%d", nodeID)
	return nil
}

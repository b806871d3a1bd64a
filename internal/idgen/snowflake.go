package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
)

// 进程内唯一节点；Init 之前调用 New 时按节点 0 懒加载
var node atomic.Pointer[snowflake.Node]

func setNode(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	node.Store(n)
	return nil
}

// New 订单主键
func New() uint64 {
	n := node.Load()
	if n == nil {
		fresh, _ := snowflake.NewNode(0)
		if node.CompareAndSwap(nil, fresh) {
			n = fresh
		} else {
			n = node.Load()
		}
	}
	return uint64(n.Generate().Int64())
}

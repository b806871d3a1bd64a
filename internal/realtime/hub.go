package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"onionpay-api/internal/logger"
)

const defaultSendBuffer = 32

// Client 一个已连接的管理端会话
type Client struct {
	send   chan []byte
	closed bool
}

// Send 待写出的消息；Remove 后关闭
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub 管理端会话集合，广播不保证送达
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	sendBuffer int
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{}), sendBuffer: defaultSendBuffer}
}

// NewClient 创建会话（尚未加入广播）
func (h *Hub) NewClient() *Client {
	return &Client{send: make(chan []byte, h.sendBuffer)}
}

func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	h.clients[c] = struct{}{}
}

// Remove 移除并关闭会话，可重复调用
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast 向所有会话投递，缓冲区满的会话直接丢弃本条；返回成功入队数
func (h *Hub) Broadcast(evt Event) int {
	payload, err := json.Marshal(evt)
	if err != nil {
		logger.ErrorLog.Errorf("[WS] marshal event failed: %v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clients {
		select {
		case c.send <- payload:
			delivered++
		default:
			logger.InfoLog.Warnf("[WS] client buffer full, dropping %s", evt.Type)
		}
	}
	return delivered
}

// Notify 实现 Notifier
func (h *Hub) Notify(_ context.Context, evt Event) {
	h.Broadcast(evt)
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"onionpay-api/internal/logger"
	"onionpay-api/internal/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 管理端令牌已在 AdminAuth 校验
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	hub *realtime.Hub
}

func NewWsHandler(hub *realtime.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// Serve GET /ws
func (h *WsHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.ErrorLog.Errorf("[WS] upgrade failed: %v", err)
		return
	}

	client := h.hub.NewClient()
	h.hub.Add(client)
	logger.InfoLog.Infof("[WS] admin connected, sessions=%d", h.hub.Count())

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// readPump 只处理 pong 与关闭；管理端不发送业务消息
func (h *WsHandler) readPump(conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		h.hub.Remove(client)
		_ = conn.Close()
		logger.InfoLog.Infof("[WS] admin disconnected, sessions=%d", h.hub.Count())
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WsHandler) writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.hub.Remove(client)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.Remove(client)
				return
			}
		}
	}
}

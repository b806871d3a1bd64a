package dal

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"onionpay-api/internal/config"
)

// AlertQueue 管理员告警队列（Telegram），绑定 payment.submitted
const AlertQueue = "onionpay_admin_alerts"

var (
	mqConn    *amqp.Connection
	mqChannel *amqp.Channel

	mqMu sync.Mutex

	// 用 NotifyClose 事件判断是否已关闭
	connClosedCh chan *amqp.Error
	chClosedCh   chan *amqp.Error

	reconnecting bool
	closing      bool
)

// InitRabbitMQ 首次连接；rabbitmq.url 为空时不启用
func InitRabbitMQ() error {
	if config.C.RabbitMQ.URL == "" {
		log.Println("[RabbitMQ] url not configured, event bridge disabled")
		return nil
	}
	return connectMQ()
}

// RabbitEnabled 是否已连接
func RabbitEnabled() bool {
	mqMu.Lock()
	defer mqMu.Unlock()
	return mqChannel != nil
}

func connectMQ() error {
	mqMu.Lock()
	defer mqMu.Unlock()

	if isConnAlive() && isChanAlive() {
		return nil
	}

	c := config.C.RabbitMQ
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel failed: %w", err)
	}

	if err := ch.ExchangeDeclare(c.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("exchange declare failed: %w", err)
	}
	if _, err := ch.QueueDeclare(AlertQueue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("queue declare %s failed: %w", AlertQueue, err)
	}
	if err := ch.QueueBind(AlertQueue, "payment.submitted", c.Exchange, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("queue bind %s failed: %w", AlertQueue, err)
	}

	mqConn = conn
	mqChannel = ch
	connClosedCh = conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosedCh = ch.NotifyClose(make(chan *amqp.Error, 1))
	log.Printf("[RabbitMQ] connected, exchange=%s", c.Exchange)

	go watchClose(connClosedCh, chClosedCh)
	return nil
}

// 监听关闭事件，触发重连
func watchClose(connCh, chCh chan *amqp.Error) {
	select {
	case err := <-connCh:
		log.Printf("[RabbitMQ] connection closed: %v", err)
	case err := <-chCh:
		log.Printf("[RabbitMQ] channel closed: %v", err)
	}
	mqMu.Lock()
	stop := closing
	mqMu.Unlock()
	if !stop {
		reconnectMQ()
	}
}

// 自愈重连（阻塞重试直至成功）
func reconnectMQ() {
	mqMu.Lock()
	if reconnecting {
		mqMu.Unlock()
		return
	}
	reconnecting = true
	mqMu.Unlock()

	defer func() {
		mqMu.Lock()
		reconnecting = false
		mqMu.Unlock()
	}()

	for {
		log.Println("[RabbitMQ] reconnecting...")
		if err := connectMQ(); err == nil {
			log.Println("[RabbitMQ] reconnected")
			return
		}
		time.Sleep(5 * time.Second)
	}
}

func isConnAlive() bool {
	if mqConn == nil || connClosedCh == nil {
		return false
	}
	select {
	case <-connClosedCh:
		return false
	default:
		return true
	}
}

func isChanAlive() bool {
	if mqChannel == nil || chClosedCh == nil {
		return false
	}
	select {
	case <-chClosedCh:
		return false
	default:
		return true
	}
}

// GetChannel 当前可用通道，未启用时返回 nil
func GetChannel() *amqp.Channel {
	mqMu.Lock()
	defer mqMu.Unlock()
	return mqChannel
}

// CloseRabbitMQ 关闭连接
func CloseRabbitMQ() {
	mqMu.Lock()
	defer mqMu.Unlock()
	closing = true
	if mqConn != nil {
		_ = mqConn.Close()
	}
	mqConn, mqChannel = nil, nil
}

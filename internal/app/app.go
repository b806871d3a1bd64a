package app

import (
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"onionpay-api/internal/cache"
	"onionpay-api/internal/callback"
	"onionpay-api/internal/config"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/middleware"
	"onionpay-api/internal/mq"
	"onionpay-api/internal/notify"
	"onionpay-api/internal/realtime"
	"onionpay-api/internal/service"
)

// Options 组装依赖；Redis 与 MQ 可为空
type Options struct {
	Config    config.Root
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher *mq.Publisher
	Clock     func() time.Time
}

// App 进程内共享的服务实例
type App struct {
	Config    config.Root
	DB        *gorm.DB
	Hub       *realtime.Hub
	Webhook   *callback.Webhook
	Telegram  *notify.Telegram
	Limiter   *middleware.RateLimiter
	ApiKeys   *service.ApiKeyService
	Orders    *service.OrderService
	Checkout  *service.CheckoutService
	Products  *service.ProductService
	QrCodes   *service.QrCodeService
	Dashboard *service.DashboardService
	Users     *service.UserService
}

func New(opts Options) *App {
	cfg := opts.Config
	config.ApplyDefaults(&cfg)

	c := cache.NewRedisCache(opts.Redis)
	hub := realtime.NewHub()
	webhook := callback.NewWebhook(cfg.Webhook.Secret, time.Duration(cfg.Webhook.TimeoutSec)*time.Second)
	tg := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	// MQ 可用时由消费者发送 Telegram（带重试），否则直接发送
	notifiers := realtime.Multi{hub}
	if opts.Publisher != nil {
		notifiers = append(notifiers, opts.Publisher)
	} else if tg != nil {
		notifiers = append(notifiers, tg)
	}

	orderOpts := []service.OrderOption{
		service.WithNotifier(notifiers),
		service.WithWebhook(webhook),
		service.WithCache(c, time.Duration(cfg.Redis.OrderTTLSec)*time.Second),
		service.WithRequireUTR(cfg.Order.RequireUTR),
	}
	if opts.Clock != nil {
		orderOpts = append(orderOpts, service.WithClock(opts.Clock))
	}

	orderDao := dao.NewOrderDao(opts.DB)
	productDao := dao.NewProductDao(opts.DB)
	qrDao := dao.NewQrCodeDao(opts.DB)

	orders := service.NewOrderService(orderDao, orderOpts...)
	return &App{
		Config:   cfg,
		DB:       opts.DB,
		Hub:      hub,
		Webhook:  webhook,
		Telegram: tg,
		Limiter:  middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		ApiKeys:  service.NewApiKeyService(dao.NewApiKeyDao(opts.DB), cfg.Security.BcryptCost),
		Orders:   orders,
		Checkout: service.NewCheckoutService(orders, productDao, qrDao, service.CheckoutConfig{
			MinAmount: cfg.Order.MinAmount,
			MaxAmount: cfg.Order.MaxAmount,
			PayeeName: cfg.Order.PayeeName,
			Currency:  cfg.Order.Currency,
		}),
		Products:  service.NewProductService(productDao),
		QrCodes:   service.NewQrCodeService(qrDao, cfg.Upload.Dir, cfg.Upload.MaxBytes),
		Dashboard: service.NewDashboardService(orders, productDao, c, time.Duration(cfg.Redis.StatsTTLSec)*time.Second, hub),
		Users:     service.NewUserService(dao.NewUserDao(opts.DB)),
	}
}

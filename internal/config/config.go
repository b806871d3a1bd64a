package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	PublicBaseURL  string   `mapstructure:"publicBaseUrl"`
	TrustedProxies []string `mapstructure:"trustedProxies"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type DatabaseCfg struct {
	Driver       string `mapstructure:"driver"` // mysql | postgres | sqlite
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	LogLevel     string `mapstructure:"logLevel"`
}

type RedisCfg struct {
	Addr        string `mapstructure:"addr"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	StatsTTLSec int    `mapstructure:"statsTtlSec"`
	OrderTTLSec int    `mapstructure:"orderTtlSec"`
}

type RabbitCfg struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type SecurityCfg struct {
	JWTSecret  string `mapstructure:"jwtSecret"`
	BcryptCost int    `mapstructure:"bcryptCost"`
}

type OrderCfg struct {
	MinAmount  int64  `mapstructure:"minAmount"` // 主单位（卢比）
	MaxAmount  int64  `mapstructure:"maxAmount"`
	RequireUTR bool   `mapstructure:"requireUtr"`
	Currency   string `mapstructure:"currency"`
	PayeeName  string `mapstructure:"payeeName"`
}

type WebhookCfg struct {
	Secret     string `mapstructure:"secret"`
	TimeoutSec int    `mapstructure:"timeoutSec"`
}

type RateLimitCfg struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type UploadCfg struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"maxBytes"`
}

type TelegramCfg struct {
	BotToken string `mapstructure:"botToken"`
	ChatID   string `mapstructure:"chatId"`
}

type LogCfg struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

type SnowflakeCfg struct {
	NodeID int64 `mapstructure:"nodeId"`
}

type Root struct {
	Server    ServerCfg    `mapstructure:"server"`
	Database  DatabaseCfg  `mapstructure:"database"`
	Redis     RedisCfg     `mapstructure:"redis"`
	RabbitMQ  RabbitCfg    `mapstructure:"rabbitmq"`
	Security  SecurityCfg  `mapstructure:"security"`
	Order     OrderCfg     `mapstructure:"order"`
	Webhook   WebhookCfg   `mapstructure:"webhook"`
	RateLimit RateLimitCfg `mapstructure:"ratelimit"`
	Upload    UploadCfg    `mapstructure:"upload"`
	Telegram  TelegramCfg  `mapstructure:"telegram"`
	Log       LogCfg       `mapstructure:"log"`
	Snowflake SnowflakeCfg `mapstructure:"snowflake"`
}

var C Root

// Load 读取 config/config.<env>.yaml，环境变量 ONIONPAY_* 覆盖文件配置
func Load(env string) error {
	_ = godotenv.Load()

	if strings.TrimSpace(env) == "" {
		env = "dev"
	}
	v := viper.New()
	v.SetConfigFile("config/config." + env + ".yaml")
	v.SetEnvPrefix("ONIONPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	var root Root
	if err := v.Unmarshal(&root); err != nil {
		return fmt.Errorf("unmarshal config failed: %w", err)
	}
	ApplyDefaults(&root)
	C = root
	return nil
}

// Default 返回仅包含默认值的配置，测试与命令行工具使用
func Default() Root {
	var root Root
	ApplyDefaults(&root)
	return root
}

// ApplyDefaults sane defaults
func ApplyDefaults(c *Root) {
	if strings.TrimSpace(c.Server.Port) == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 50
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}
	if c.Redis.StatsTTLSec <= 0 {
		c.Redis.StatsTTLSec = 5
	}
	if c.Redis.OrderTTLSec <= 0 {
		c.Redis.OrderTTLSec = 3600
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "onionpay_events"
	}
	if c.Security.BcryptCost <= 0 {
		c.Security.BcryptCost = 12
	}
	if c.Order.MinAmount <= 0 {
		c.Order.MinAmount = 1
	}
	if c.Order.MaxAmount <= 0 {
		c.Order.MaxAmount = 100000
	}
	if c.Order.Currency == "" {
		c.Order.Currency = "INR"
	}
	if c.Order.PayeeName == "" {
		c.Order.PayeeName = "OnionPay"
	}
	if c.Webhook.TimeoutSec <= 0 {
		c.Webhook.TimeoutSec = 10
	}
	if c.RateLimit.RPS <= 0 {
		c.RateLimit.RPS = 1
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 5
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "uploads"
	}
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = 2 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Snowflake.NodeID < 0 || c.Snowflake.NodeID > 1023 {
		c.Snowflake.NodeID = 1
	}
}

// Package testutil 测试辅助：内存 sqlite、测试配置、管理员令牌
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"onionpay-api/internal/config"
	"onionpay-api/internal/dal"
	"onionpay-api/internal/model"
)

const JWTSecret = "test-secret"

var dbSeq int64

// NewDB 每个测试独立的内存数据库，已建表
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbSeq, 1))
	db, err := dal.OpenDB(config.DatabaseCfg{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := dal.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Config 默认配置 + 测试参数
func Config(t *testing.T) config.Root {
	t.Helper()
	c := config.Default()
	c.Security.JWTSecret = JWTSecret
	c.Security.BcryptCost = bcrypt.MinCost
	c.Upload.Dir = t.TempDir()
	c.RateLimit.RPS = 1
	c.RateLimit.Burst = 3
	return c
}

// SeedQrCode 写入一条启用的收款码
func SeedQrCode(t *testing.T, db *gorm.DB, upiID string) *model.QrCode {
	t.Helper()
	q := &model.QrCode{UpiID: upiID, IsActive: true}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed qr code: %v", err)
	}
	return q
}

// SeedProduct 写入商品，价格单位 paise
func SeedProduct(t *testing.T, db *gorm.DB, name string, price int64, active bool) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: price, IsActive: true}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if !active {
		if err := db.Model(p).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product: %v", err)
		}
		p.IsActive = false
	}
	return p
}

// AdminToken 签发 HS256 管理员令牌
func AdminToken(t *testing.T, sub, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        sub,
		"email":      email,
		"given_name": "Test",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// Clock 可手动拨动的时钟
type Clock struct {
	now atomic.Value
}

func NewClock(start time.Time) *Clock {
	c := &Clock{}
	c.now.Store(start)
	return c
}

func (c *Clock) Now() time.Time {
	return c.now.Load().(time.Time)
}

func (c *Clock) Advance(d time.Duration) {
	c.now.Store(c.Now().Add(d))
}

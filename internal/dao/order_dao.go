package dao

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"onionpay-api/internal/model"
)

type OrderDao struct {
	DB *gorm.DB
}

// NewOrderDao 支持传入自定义 DB（比如 txDB）
func NewOrderDao(db *gorm.DB) *OrderDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &OrderDao{DB: db}
}

// 安全检查方法
func (r *OrderDao) checkDB() error {
	if r == nil {
		return errors.New("OrderDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

// Insert 插入订单
func (r *OrderDao) Insert(ctx context.Context, o *model.Order) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert order failed: %w", err)
	}
	if err := r.DB.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("insert order failed: %w", err)
	}
	return nil
}

// GetByOrderID 根据对外订单号查询，不存在返回 (nil, nil)
func (r *OrderDao) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get by order id failed: %w", err)
	}

	var m model.Order
	err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

// MarkExpired pending 且已到期 -> expired；返回是否由本次调用完成流转
func (r *OrderDao) MarkExpired(ctx context.Context, id uint64, now time.Time) (bool, error) {
	return r.transition(ctx, "mark expired",
		r.DB.WithContext(ctx).Model(&model.Order{}).
			Where("id = ? AND status = ? AND expires_at <= ?", id, model.OrderStatusPending, now),
		map[string]interface{}{
			"status":     model.OrderStatusExpired,
			"updated_at": now,
		})
}

// AttachUTR 仅在 pending 且未过期时写入 UTR
func (r *OrderDao) AttachUTR(ctx context.Context, id uint64, utr string, now time.Time) (bool, error) {
	return r.transition(ctx, "attach utr",
		r.DB.WithContext(ctx).Model(&model.Order{}).
			Where("id = ? AND status = ? AND expires_at > ?", id, model.OrderStatusPending, now),
		map[string]interface{}{
			"utr":        utr,
			"updated_at": now,
		})
}

// Approve pending -> approved，同时记录 approved_at
func (r *OrderDao) Approve(ctx context.Context, id uint64, now time.Time) (bool, error) {
	return r.transition(ctx, "approve",
		r.DB.WithContext(ctx).Model(&model.Order{}).
			Where("id = ? AND status = ?", id, model.OrderStatusPending),
		map[string]interface{}{
			"status":      model.OrderStatusApproved,
			"approved_at": now,
			"updated_at":  now,
		})
}

// Reject pending -> failed
func (r *OrderDao) Reject(ctx context.Context, id uint64, now time.Time) (bool, error) {
	return r.transition(ctx, "reject",
		r.DB.WithContext(ctx).Model(&model.Order{}).
			Where("id = ? AND status = ?", id, model.OrderStatusPending),
		map[string]interface{}{
			"status":     model.OrderStatusFailed,
			"updated_at": now,
		})
}

// transition 条件更新（compare-and-set），RowsAffected 为 0 表示条件已不成立或值未变化
// （MySQL 默认只统计实际变更的行，由调用方重新读取后判定）
func (r *OrderDao) transition(ctx context.Context, op string, q *gorm.DB, values map[string]interface{}) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("%s failed: %w", op, err)
	}
	res := q.Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("%s failed: %w", op, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListPending pending 且未过期，按创建时间倒序
func (r *OrderDao) ListPending(ctx context.Context, now time.Time) ([]model.Order, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("list pending failed: %w", err)
	}
	var out []model.Order
	err := r.DB.WithContext(ctx).
		Where("status = ? AND expires_at >= ?", model.OrderStatusPending, now).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list pending failed: %w", err)
	}
	return out, nil
}

// ListRecent 最近 limit 条订单
func (r *OrderDao) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("list recent failed: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}
	var out []model.Order
	err := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list recent failed: %w", err)
	}
	return out, nil
}

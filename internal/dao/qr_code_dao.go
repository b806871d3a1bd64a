package dao

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"onionpay-api/internal/model"
)

type QrCodeDao struct {
	DB *gorm.DB
}

func NewQrCodeDao(db *gorm.DB) *QrCodeDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &QrCodeDao{DB: db}
}

// GetActive 当前启用的收款码，不存在返回 (nil, nil)
func (r *QrCodeDao) GetActive(ctx context.Context) (*model.QrCode, error) {
	var m model.QrCode
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query active qr code failed: %w", err)
	}
	return &m, nil
}

// GetByID 历史订单引用的收款码
func (r *QrCodeDao) GetByID(ctx context.Context, id uint) (*model.QrCode, error) {
	var m model.QrCode
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query qr code failed: %w", err)
	}
	return &m, nil
}

// ReplaceActive 停用全部旧记录并插入新记录（同一事务）
func (r *QrCodeDao) ReplaceActive(ctx context.Context, q *model.QrCode) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.QrCode{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate qr codes failed: %w", err)
		}
		q.IsActive = true
		if err := tx.Create(q).Error; err != nil {
			return fmt.Errorf("insert qr code failed: %w", err)
		}
		return nil
	})
}

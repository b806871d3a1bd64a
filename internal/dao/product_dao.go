package dao

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"onionpay-api/internal/model"
)

type ProductDao struct {
	DB *gorm.DB
}

func NewProductDao(db *gorm.DB) *ProductDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &ProductDao{DB: db}
}

// ListActive 上架商品，按创建时间倒序
func (r *ProductDao) ListActive(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list products failed: %w", err)
	}
	return out, nil
}

// CountActive 上架商品数量
func (r *ProductDao) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count products failed: %w", err)
	}
	return n, nil
}

// GetByID 不存在返回 (nil, nil)
func (r *ProductDao) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var m model.Product
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product failed: %w", err)
	}
	return &m, nil
}

func (r *ProductDao) Insert(ctx context.Context, p *model.Product) error {
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert product failed: %w", err)
	}
	return nil
}

// Update 部分更新；返回是否命中
func (r *ProductDao) Update(ctx context.Context, id uint, values map[string]interface{}) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("update product failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Deactivate 软删除
func (r *ProductDao) Deactivate(ctx context.Context, id uint) (bool, error) {
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}

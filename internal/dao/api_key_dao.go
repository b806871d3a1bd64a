package dao

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"onionpay-api/internal/model"
)

type ApiKeyDao struct {
	DB *gorm.DB
}

func NewApiKeyDao(db *gorm.DB) *ApiKeyDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &ApiKeyDao{DB: db}
}

func (r *ApiKeyDao) Insert(ctx context.Context, k *model.ApiKey) error {
	if err := r.DB.WithContext(ctx).Create(k).Error; err != nil {
		return fmt.Errorf("insert api key failed: %w", err)
	}
	return nil
}

// ListActiveByPrefix 校验时扫描的候选集合：启用中且 key_hint 以 prefix 开头
func (r *ApiKeyDao) ListActiveByPrefix(ctx context.Context, prefix string) ([]model.ApiKey, error) {
	var out []model.ApiKey
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND SUBSTR(key_hint, 1, ?) = ?", true, len(prefix), prefix).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list active api keys failed: %w", err)
	}
	return out, nil
}

// ListByUser 用户名下启用的密钥，按创建时间倒序
func (r *ApiKeyDao) ListByUser(ctx context.Context, userID string) ([]model.ApiKey, error) {
	var out []model.ApiKey
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list user api keys failed: %w", err)
	}
	return out, nil
}

// TouchLastUsed 只更新 last_used_at
func (r *ApiKeyDao) TouchLastUsed(ctx context.Context, id uint, at time.Time) error {
	err := r.DB.WithContext(ctx).Model(&model.ApiKey{}).Where("id = ?", id).UpdateColumn("last_used_at", at).Error
	if err != nil {
		return fmt.Errorf("touch api key failed: %w", err)
	}
	return nil
}

// Deactivate 仅当密钥属于该用户时停用；返回是否命中
func (r *ApiKeyDao) Deactivate(ctx context.Context, id uint, userID string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.ApiKey{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_active", false)
	if res.Error != nil {
		return false, fmt.Errorf("deactivate api key failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

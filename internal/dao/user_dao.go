package dao

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"onionpay-api/internal/model"
)

type UserDao struct {
	DB *gorm.DB
}

func NewUserDao(db *gorm.DB) *UserDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &UserDao{DB: db}
}

// GetByID 不存在返回 (nil, nil)
func (r *UserDao) GetByID(ctx context.Context, id string) (*model.User, error) {
	var m model.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user failed: %w", err)
	}
	return &m, nil
}

// Upsert 按 id 插入或更新资料字段
func (r *UserDao) Upsert(ctx context.Context, u *model.User) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return fmt.Errorf("upsert user failed: %w", err)
	}
	return nil
}

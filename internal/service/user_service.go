package service

import (
	"context"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/model"
	"onionpay-api/internal/utils/timeutil"
)

type UserService struct {
	userDao *dao.UserDao
}

func NewUserService(userDao *dao.UserDao) *UserService {
	return &UserService{userDao: userDao}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Sync 按令牌中的身份信息写入用户
func (s *UserService) Sync(ctx context.Context, p dto.Principal) (*model.User, error) {
	if p.UserID == "" {
		return nil, constant.NewError(constant.CodeTokenInvalid)
	}
	now := timeutil.NowUTC()
	u := &model.User{
		ID:              p.UserID,
		Email:           optional(p.Email),
		FirstName:       optional(p.FirstName),
		LastName:        optional(p.LastName),
		ProfileImageURL: optional(p.ProfileImageURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.userDao.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return s.Get(ctx, p.UserID)
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userDao.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, constant.NewError(constant.CodeAccountNotFound)
	}
	return u, nil
}

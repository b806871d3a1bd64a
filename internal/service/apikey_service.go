package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/idgen"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/model"
)

// Tier 密钥权限等级，只由前缀决定
type Tier string

const (
	TierPublishable Tier = "publishable"
	TierSecret      Tier = "secret"

	PublishablePrefix = "onp_pk_"
	SecretPrefix      = "onp_sk_"

	defaultKeyName = "Default Key"
	maxKeyNameLen  = 100
)

var keyFormat = regexp.MustCompile(`^onp_(pk|sk)_[0-9a-f]{32}$`)

func (t Tier) prefix() string {
	if t == TierPublishable {
		return PublishablePrefix
	}
	return SecretPrefix
}

func (t Tier) rank() int {
	switch t {
	case TierPublishable:
		return 1
	case TierSecret:
		return 2
	default:
		return 0
	}
}

// Allows secret 覆盖 publishable 的全部权限
func (t Tier) Allows(required Tier) bool {
	return t.rank() > 0 && t.rank() >= required.rank()
}

// ParseTier 空字符串按 secret 处理
func ParseTier(s string) (Tier, error) {
	switch strings.TrimSpace(s) {
	case "", string(TierSecret):
		return TierSecret, nil
	case string(TierPublishable):
		return TierPublishable, nil
	default:
		return "", constant.NewError(constant.CodeApiKeyTypeInvalid)
	}
}

// TierOf 根据前缀判断等级，格式不合法返回 false
func TierOf(key string) (Tier, bool) {
	if !keyFormat.MatchString(key) {
		return "", false
	}
	if strings.HasPrefix(key, PublishablePrefix) {
		return TierPublishable, true
	}
	return TierSecret, true
}

// TierOfRecord 已存密钥的等级，取自 key_hint 的前缀
func TierOfRecord(k *model.ApiKey) Tier {
	switch {
	case k == nil:
		return ""
	case strings.HasPrefix(k.KeyHint, PublishablePrefix):
		return TierPublishable
	case strings.HasPrefix(k.KeyHint, SecretPrefix):
		return TierSecret
	default:
		return ""
	}
}

// MaskKey onp_sk_••••abcd
func MaskKey(key string) string {
	if len(key) < 11 {
		return "••••"
	}
	return key[:7] + "••••" + key[len(key)-4:]
}

// ApiKeyService 商户密钥签发与校验
type ApiKeyService struct {
	keyDao *dao.ApiKeyDao
	cost   int
	now    func() time.Time
}

func NewApiKeyService(keyDao *dao.ApiKeyDao, bcryptCost int) *ApiKeyService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &ApiKeyService{keyDao: keyDao, cost: bcryptCost, now: time.Now}
}

// Issue 签发密钥，明文只返回这一次
func (s *ApiKeyService) Issue(ctx context.Context, ownerID, name string, tier Tier) (string, *model.ApiKey, error) {
	if tier.rank() == 0 {
		return "", nil, constant.NewError(constant.CodeApiKeyTypeInvalid)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultKeyName
	}
	if len([]rune(name)) > maxKeyNameLen {
		return "", nil, constant.NewError(constant.CodeParamsRangeError).WithMessage("Key name must be at most 100 characters")
	}

	plain := tier.prefix() + idgen.RandomHex32()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", nil, fmt.Errorf("hash api key: %w", err)
	}

	rec := &model.ApiKey{
		UserID:   ownerID,
		Name:     name,
		KeyHash:  string(hash),
		KeyHint:  MaskKey(plain),
		IsActive: true,
	}
	if err := s.keyDao.Insert(ctx, rec); err != nil {
		return "", nil, err
	}
	return plain, rec, nil
}

// Validate 格式校验后逐个比对启用中的同等级密钥；命中后仅更新 last_used_at
func (s *ApiKeyService) Validate(ctx context.Context, presented string) (*model.ApiKey, error) {
	tier, ok := TierOf(presented)
	if !ok {
		return nil, constant.NewError(constant.CodeApiKeyInvalid)
	}

	candidates, err := s.keyDao.ListActiveByPrefix(ctx, tier.prefix())
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		k := &candidates[i]
		if bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(presented)) != nil {
			continue
		}
		now := s.now().UTC()
		if err := s.keyDao.TouchLastUsed(ctx, k.ID, now); err != nil {
			logger.ErrorLog.Errorf("[APIKEY] touch last_used_at failed: id=%d err=%v", k.ID, err)
		} else {
			k.LastUsedAt = &now
		}
		return k, nil
	}
	return nil, constant.NewError(constant.CodeApiKeyInvalid)
}

// Authenticate 校验并检查等级
func (s *ApiKeyService) Authenticate(ctx context.Context, presented string, required Tier) (*model.ApiKey, error) {
	if strings.TrimSpace(presented) == "" {
		return nil, constant.NewError(constant.CodeUnauthorized)
	}
	k, err := s.Validate(ctx, presented)
	if err != nil {
		return nil, err
	}
	// 等级只看调用方出示的前缀
	tier, _ := TierOf(presented)
	if !tier.Allows(required) {
		return nil, constant.NewError(constant.CodeAccessDenied)
	}
	return k, nil
}

// Revoke 只停用属于 ownerID 的密钥；其他情况静默成功
func (s *ApiKeyService) Revoke(ctx context.Context, keyID uint, ownerID string) error {
	hit, err := s.keyDao.Deactivate(ctx, keyID, ownerID)
	if err != nil {
		return err
	}
	if hit {
		logger.InfoLog.Infof("[APIKEY] revoked id=%d owner=%s", keyID, ownerID)
	}
	return nil
}

// List 用户名下启用的密钥
func (s *ApiKeyService) List(ctx context.Context, ownerID string) ([]dto.ApiKeyView, error) {
	keys, err := s.keyDao.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApiKeyView, 0, len(keys))
	for i := range keys {
		out = append(out, ToApiKeyView(&keys[i]))
	}
	return out, nil
}

func ToApiKeyView(k *model.ApiKey) dto.ApiKeyView {
	return dto.ApiKeyView{
		ID:         k.ID,
		Name:       k.Name,
		Type:       string(TierOfRecord(k)),
		KeyHint:    k.KeyHint,
		IsActive:   k.IsActive,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

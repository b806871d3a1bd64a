package service

import (
	"context"
	"strings"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/model"
	"onionpay-api/internal/utils"
	"onionpay-api/internal/utils/timeutil"
)

type ProductService struct {
	productDao *dao.ProductDao
}

func NewProductService(productDao *dao.ProductDao) *ProductService {
	return &ProductService{productDao: productDao}
}

// priceInPaise priceInPaise 优先，否则按卢比解析 price
func priceInPaise(paise *int64, price []byte) (int64, bool) {
	if paise != nil {
		return *paise, *paise > 0
	}
	v, present := decodeRawValue(price)
	if !present {
		return 0, false
	}
	return utils.NormalizeAmount(v)
}

func invalidPrice() error {
	return constant.NewError(constant.CodeProductInvalid).WithMessage("Valid price is required")
}

// List 上架商品
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.productDao.ListActive(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.productDao.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, constant.NewError(constant.CodeProductNotFound)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductReq) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, constant.NewError(constant.CodeProductInvalid).WithMessage("Product name is required")
	}
	price, ok := priceInPaise(req.PriceInPaise, req.Price)
	if !ok {
		return nil, invalidPrice()
	}
	p := &model.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       price,
		IsActive:    true,
	}
	if err := s.productDao.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update 部分更新，只写入请求中出现的字段
func (s *ProductService) Update(ctx context.Context, id uint, req dto.UpdateProductReq) (*model.Product, error) {
	values := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, constant.NewError(constant.CodeProductInvalid).WithMessage("Product name is required")
		}
		values["name"] = name
	}
	if req.Description != nil {
		values["description"] = strings.TrimSpace(*req.Description)
	}
	if _, present := decodeRawValue(req.Price); present || req.PriceInPaise != nil {
		price, ok := priceInPaise(req.PriceInPaise, req.Price)
		if !ok {
			return nil, invalidPrice()
		}
		values["price"] = price
	}
	if req.IsActive != nil {
		values["is_active"] = *req.IsActive
	}

	if len(values) > 0 {
		values["updated_at"] = timeutil.NowUTC()
		hit, err := s.productDao.Update(ctx, id, values)
		if err != nil {
			return nil, err
		}
		if !hit {
			return nil, constant.NewError(constant.CodeProductNotFound)
		}
	}

	p, err := s.productDao.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, constant.NewError(constant.CodeProductNotFound)
	}
	return p, nil
}

// Delete 软删除
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	hit, err := s.productDao.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !hit {
		return constant.NewError(constant.CodeProductNotFound)
	}
	return nil
}

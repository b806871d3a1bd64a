package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/model"
	"onionpay-api/internal/utils"
	"onionpay-api/internal/utils/timeutil"
)

// CheckoutConfig 收银台参数
type CheckoutConfig struct {
	MinAmount int64 // 卢比
	MaxAmount int64 // 卢比
	PayeeName string
	Currency  string // 请求未指定时使用
}

// CheckoutService 商户创建会话、付款人查看与提交
type CheckoutService struct {
	orders     *OrderService
	productDao *dao.ProductDao
	qrDao      *dao.QrCodeDao
	cfg        CheckoutConfig
}

func NewCheckoutService(orders *OrderService, productDao *dao.ProductDao, qrDao *dao.QrCodeDao, cfg CheckoutConfig) *CheckoutService {
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = 1
	}
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = 100000
	}
	if cfg.PayeeName == "" {
		cfg.PayeeName = "OnionPay"
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &CheckoutService{orders: orders, productDao: productDao, qrDao: qrDao, cfg: cfg}
}

// resolvedAmount 金额解析结果
type resolvedAmount struct {
	minor        int64
	autoDetected bool
	original     interface{}
	product      *model.Product
}

// CreateSession 金额优先级：amount > priceText > 商品价格
func (s *CheckoutService) CreateSession(ctx context.Context, key *model.ApiKey, req dto.CreateSessionReq, baseURL string) (*dto.CreateSessionResp, error) {
	productID, err := parseProductID(req.ProductID)
	if err != nil {
		return nil, err
	}

	amt, err := s.resolveAmount(ctx, req, productID)
	if err != nil {
		return nil, err
	}
	if !utils.AmountInRange(amt.minor, s.cfg.MinAmount, s.cfg.MaxAmount) {
		return nil, constant.NewError(constant.CodeParamsRangeError).WithMessage(fmt.Sprintf(
			"Amount must be between %s and %s", utils.FormatRupees(s.cfg.MinAmount), utils.FormatRupees(s.cfg.MaxAmount)))
	}

	description := strings.TrimSpace(req.Description)
	if amt.product != nil && description == "" {
		description = amt.product.Name
	}
	item := strings.TrimSpace(req.ItemName)
	if item != "" && (amt.product != nil || productID == nil) {
		if description == "" {
			description = item
		} else {
			description = item + " - " + description
		}
	}
	if description == "" {
		return nil, constant.NewError(constant.CodeInvalidParams).WithMessage("Description is required")
	}

	qr, err := s.qrDao.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, constant.NewError(constant.CodeGatewayNotConfigured)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.Currency
	}

	order, err := s.orders.CreateOrder(ctx, NewOrder{
		ProductID:     productID,
		QrCodeID:      qr.ID,
		Amount:        amt.minor,
		Currency:      currency,
		Description:   description,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CallbackURL:   strings.TrimSpace(req.CallbackURL),
	})
	if err != nil {
		return nil, err
	}
	if key != nil {
		logger.InfoLog.Infof("[CHECKOUT] session order=%s key=%d tier=%s", order.OrderID, key.ID, TierOfRecord(key))
	}

	return &dto.CreateSessionResp{
		OrderID:       order.OrderID,
		PaymentURL:    baseURL + "/payment/" + order.OrderID,
		Amount:        utils.MinorToMajorFloat(order.Amount),
		AmountInPaise: order.Amount,
		Currency:      order.Currency,
		Description:   order.Description,
		ItemName:      item,
		ExpiresAt:     timeutil.FormatISO8601Milli(order.ExpiresAt),
		QrCodeURL:     qrCodeURL(qr, order.OrderID, baseURL),
		UpiID:         qr.UpiID,
		IntegrationInfo: dto.IntegrationInfo{
			AutoDetected:   amt.autoDetected,
			OriginalAmount: amt.original,
			ParsedAmount:   utils.MinorToMajorFloat(amt.minor),
		},
	}, nil
}

func (s *CheckoutService) resolveAmount(ctx context.Context, req dto.CreateSessionReq, productID *uint) (resolvedAmount, error) {
	if v, present := decodeRawValue(req.Amount); present {
		if minor, ok := utils.NormalizeAmount(v); ok {
			_, isText := v.(string)
			return resolvedAmount{minor: minor, autoDetected: isText, original: v}, nil
		}
	}

	if text := strings.TrimSpace(req.PriceText); text != "" {
		if minor, ok := utils.NormalizeAmount(text); ok {
			return resolvedAmount{minor: minor, autoDetected: true, original: req.PriceText}, nil
		}
	}

	if productID != nil {
		p, err := s.productDao.GetByID(ctx, *productID)
		if err != nil {
			return resolvedAmount{}, err
		}
		if p == nil || !p.IsActive {
			return resolvedAmount{}, constant.NewError(constant.CodeProductNotFound)
		}
		return resolvedAmount{minor: p.Price, original: utils.MinorToMajorFloat(p.Price), product: p}, nil
	}

	return resolvedAmount{}, constant.NewError(constant.CodeOrderAmountInvalid)
}

// decodeRawValue 数字保留为 json.Number；缺省或 null 返回 false
func decodeRawValue(raw json.RawMessage) (interface{}, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, true
	}
	return v, true
}

func parseProductID(v *utils.StringOrNumber) (*uint, error) {
	if v.IsBlank() {
		return nil, nil
	}
	id, ok := v.Uint()
	if !ok {
		return nil, constant.NewError(constant.CodeProductInvalid)
	}
	return &id, nil
}

// qrCodeURL 优先使用上传的收款码图片，否则按订单生成
func qrCodeURL(qr *model.QrCode, orderID, baseURL string) string {
	if qr.ImageURL != "" {
		if strings.HasPrefix(qr.ImageURL, "/") {
			return baseURL + qr.ImageURL
		}
		return qr.ImageURL
	}
	return baseURL + "/v1/checkout/qr/" + orderID
}

// Status 公开状态查询
func (s *CheckoutService) Status(ctx context.Context, code string) (*dto.StatusResp, error) {
	o, err := s.orders.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResp{
		Status:    string(o.Status),
		OrderID:   o.OrderID,
		Amount:    o.Amount,
		UpdatedAt: timeutil.FormatISO8601Milli(o.UpdatedAt),
		Rupees:    utils.MinorToMajorFloat(o.Amount),
	}, nil
}

// PaymentPage 付款页数据，使用订单创建时的收款码
func (s *CheckoutService) PaymentPage(ctx context.Context, code, baseURL string) (*dto.PaymentPageResp, error) {
	o, err := s.orders.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	qr, err := s.orderQrCode(ctx, o)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentPageResp{
		OrderID:     o.OrderID,
		Amount:      utils.MinorToMajorFloat(o.Amount),
		Currency:    o.Currency,
		Description: o.Description,
		UpiID:       qr.UpiID,
		QrCodeURL:   qrCodeURL(qr, o.OrderID, baseURL),
		UpiURI:      utils.UPIPayURI(qr.UpiID, s.cfg.PayeeName, o.Amount, o.Currency, o.OrderID),
		ExpiresAt:   timeutil.FormatISO8601Milli(o.ExpiresAt),
		Status:      string(o.Status),
		HasUTR:      o.HasUTR(),
	}, nil
}

// QRImage 订单 UPI 深链二维码，仅 pending 订单可用
func (s *CheckoutService) QRImage(ctx context.Context, code string, size int) ([]byte, error) {
	o, err := s.orders.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	switch o.Status {
	case model.OrderStatusPending:
	case model.OrderStatusExpired:
		return nil, constant.NewError(constant.CodeOrderExpired)
	default:
		return nil, constant.NewError(constant.CodeOrderStatusInvalid)
	}
	qr, err := s.orderQrCode(ctx, o)
	if err != nil {
		return nil, err
	}
	png, err := utils.RenderQRPNG(utils.UPIPayURI(qr.UpiID, s.cfg.PayeeName, o.Amount, o.Currency, o.OrderID), size)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

// Submit 付款人提交 UTR
func (s *CheckoutService) Submit(ctx context.Context, req dto.SubmitUTRReq) (*model.Order, error) {
	return s.orders.SubmitUTR(ctx, strings.TrimSpace(req.OrderID), strings.TrimSpace(req.UTR))
}

func (s *CheckoutService) orderQrCode(ctx context.Context, o *model.Order) (*model.QrCode, error) {
	qr, err := s.qrDao.GetByID(ctx, o.QrCodeID)
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, constant.NewError(constant.CodeGatewayNotConfigured)
	}
	return qr, nil
}

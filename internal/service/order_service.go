package service

import (
	"context"
	"errors"
	"time"

	"onionpay-api/internal/cache"
	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/idgen"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/model"
	"onionpay-api/internal/realtime"
)

// WebhookDispatcher 审核通过后的商户回调
type WebhookDispatcher interface {
	Dispatch(order *model.Order)
}

// NewOrder 创建订单入参，金额已是 paise
type NewOrder struct {
	ProductID     *uint
	QrCodeID      uint
	Amount        int64
	Currency      string
	Description   string
	CustomerEmail string
	CallbackURL   string
}

type OrderOption func(*OrderService)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func WithNotifier(n realtime.Notifier) OrderOption {
	return func(s *OrderService) { s.notifier = n }
}

func WithWebhook(w WebhookDispatcher) OrderOption {
	return func(s *OrderService) { s.webhook = w }
}

// WithCache 终态订单缓存
func WithCache(c cache.Cache, ttl time.Duration) OrderOption {
	return func(s *OrderService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithRequireUTR 审核前必须已提交 UTR
func WithRequireUTR(require bool) OrderOption {
	return func(s *OrderService) { s.requireUTR = require }
}

// OrderService 订单状态机：pending -> approved | failed | expired
type OrderService struct {
	orderDao   *dao.OrderDao
	now        func() time.Time
	notifier   realtime.Notifier
	webhook    WebhookDispatcher
	cache      cache.Cache
	cacheTTL   time.Duration
	requireUTR bool
}

func NewOrderService(orderDao *dao.OrderDao, opts ...OrderOption) *OrderService {
	s := &OrderService{
		orderDao: orderDao,
		now:      time.Now,
		notifier: realtime.Discard,
		cache:    cache.Nop{},
		cacheTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrderService) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// CreateOrder 分配内部 ID 与对外订单号，有效期固定为 OrderTTL
func (s *OrderService) CreateOrder(ctx context.Context, in NewOrder) (*model.Order, error) {
	now := s.clock()
	if in.Currency == "" {
		in.Currency = "INR"
	}
	o := &model.Order{
		ID:          idgen.New(),
		OrderID:     idgen.NewOrderCode(now),
		ProductID:   in.ProductID,
		QrCodeID:    in.QrCodeID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Description: in.Description,
		Status:      model.OrderStatusPending,
		ExpiresAt:   now.Add(model.OrderTTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.CustomerEmail != "" {
		email := in.CustomerEmail
		o.CustomerEmail = &email
	}
	if in.CallbackURL != "" {
		cb := in.CallbackURL
		o.CallbackURL = &cb
	}
	if err := s.orderDao.Insert(ctx, o); err != nil {
		return nil, err
	}
	logger.InfoLog.Infof("[ORDER] created order=%s amount=%d expiresAt=%s", o.OrderID, o.Amount, o.ExpiresAt.Format(time.RFC3339))
	return o, nil
}

// Get 读取订单（已做惰性过期）；不存在返回 CodeOrderNotFound
func (s *OrderService) Get(ctx context.Context, code string) (*model.Order, error) {
	var cached model.Order
	if err := s.cache.Get(ctx, s.cacheKey(code), &cached); err == nil && cached.Status.IsTerminal() {
		return &cached, nil
	}

	o, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.ensureFresh(ctx, o); err != nil {
		return nil, err
	}
	s.remember(ctx, o)
	return o, nil
}

func (s *OrderService) load(ctx context.Context, code string) (*model.Order, error) {
	o, err := s.orderDao.GetByOrderID(ctx, code)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, constant.NewError(constant.CodeOrderNotFound)
	}
	return o, nil
}

// ensureFresh pending 且已到期的订单落库为 expired；条件更新失败说明已被并发流转，重新读取
func (s *OrderService) ensureFresh(ctx context.Context, o *model.Order) error {
	now := s.clock()
	if !o.IsOverdue(now) {
		return nil
	}
	ok, err := s.orderDao.MarkExpired(ctx, o.ID, now)
	if err != nil {
		return err
	}
	if ok {
		o.Status = model.OrderStatusExpired
		o.UpdatedAt = now
		logger.InfoLog.Infof("[ORDER] expired order=%s", o.OrderID)
		return nil
	}
	return s.reload(ctx, o)
}

func (s *OrderService) reload(ctx context.Context, o *model.Order) error {
	fresh, err := s.load(ctx, o.OrderID)
	if err != nil {
		return err
	}
	*o = *fresh
	return nil
}

// SubmitUTR 付款人提交 UTR；pending 期间重复提交覆盖旧值
func (s *OrderService) SubmitUTR(ctx context.Context, code, utr string) (*model.Order, error) {
	if n := len(utr); n < 8 || n > 20 {
		return nil, constant.NewError(constant.CodeOrderUTRInvalid)
	}
	o, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusPending {
		return nil, constant.NewError(constant.CodeOrderStatusInvalid)
	}
	if o.IsOverdue(s.clock()) {
		if err := s.ensureFresh(ctx, o); err != nil {
			return nil, err
		}
		return nil, constant.NewError(constant.CodeOrderExpired)
	}

	now := s.clock()
	ok, err := s.orderDao.AttachUTR(ctx, o.ID, utr, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := s.reload(ctx, o); err != nil {
			return nil, err
		}
		if err := s.attachMissed(ctx, o, utr); err != nil {
			return nil, err
		}
	}

	o.UTR = &utr
	o.UpdatedAt = now
	logger.InfoLog.Infof("[ORDER] utr submitted order=%s", o.OrderID)
	s.emit(ctx, realtime.EventPaymentSubmitted, o)
	return o, nil
}

// attachMissed 条件更新未命中后按最新状态判定；同值重复提交视为成功
func (s *OrderService) attachMissed(ctx context.Context, o *model.Order, utr string) error {
	switch o.Status {
	case model.OrderStatusPending:
		if !o.IsOverdue(s.clock()) {
			if o.UTR != nil && *o.UTR == utr {
				return nil
			}
			return constant.NewError(constant.CodeOrderStatusInvalid)
		}
		if err := s.ensureFresh(ctx, o); err != nil {
			return err
		}
		return constant.NewError(constant.CodeOrderExpired)
	case model.OrderStatusExpired:
		return constant.NewError(constant.CodeOrderExpired)
	default:
		return constant.NewError(constant.CodeOrderStatusInvalid)
	}
}

// Approve pending -> approved，仅在胜出的那次流转触发回调
func (s *OrderService) Approve(ctx context.Context, code string) (*model.Order, error) {
	o, err := s.review(ctx, code)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	ok, err := s.orderDao.Approve(ctx, o.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, constant.NewError(constant.CodeOrderStatusInvalid)
	}

	o.Status = model.OrderStatusApproved
	o.ApprovedAt = &now
	o.UpdatedAt = now
	logger.InfoLog.Infof("[ORDER] approved order=%s", o.OrderID)
	s.remember(ctx, o)
	s.emit(ctx, realtime.EventPaymentApproved, o)
	if s.webhook != nil {
		s.webhook.Dispatch(o)
	}
	return o, nil
}

// Reject pending -> failed
func (s *OrderService) Reject(ctx context.Context, code string) (*model.Order, error) {
	o, err := s.review(ctx, code)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	ok, err := s.orderDao.Reject(ctx, o.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, constant.NewError(constant.CodeOrderStatusInvalid)
	}

	o.Status = model.OrderStatusFailed
	o.UpdatedAt = now
	logger.InfoLog.Infof("[ORDER] rejected order=%s", o.OrderID)
	s.remember(ctx, o)
	s.emit(ctx, realtime.EventPaymentRejected, o)
	return o, nil
}

func (s *OrderService) review(ctx context.Context, code string) (*model.Order, error) {
	o, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.ensureFresh(ctx, o); err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusPending {
		return nil, constant.NewError(constant.CodeOrderStatusInvalid)
	}
	if s.requireUTR && !o.HasUTR() {
		return nil, constant.NewError(constant.CodeOrderUTRMissing)
	}
	return o, nil
}

// ListPending 待审核（pending 且未过期），最新在前
func (s *OrderService) ListPending(ctx context.Context) ([]model.Order, error) {
	return s.orderDao.ListPending(ctx, s.clock())
}

// ListRecent 最近 limit 条订单，状态按读取时刻修正
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	orders, err := s.orderDao.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	for i := range orders {
		if orders[i].IsOverdue(now) {
			if err := s.ensureFresh(ctx, &orders[i]); err != nil {
				return nil, err
			}
		}
	}
	return orders, nil
}

func (s *OrderService) emit(ctx context.Context, t realtime.EventType, o *model.Order) {
	snapshot := *o
	s.notifier.Notify(ctx, realtime.Event{Type: t, Data: &snapshot})
}

func (s *OrderService) cacheKey(code string) string {
	return cache.OrderKey(code)
}

// remember 只缓存终态订单
func (s *OrderService) remember(ctx context.Context, o *model.Order) {
	if !o.Status.IsTerminal() {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(o.OrderID), o, s.cacheTTL); err != nil && !errors.Is(err, cache.ErrMiss) {
		logger.ErrorLog.Warnf("[ORDER] cache set failed: order=%s err=%v", o.OrderID, err)
	}
}

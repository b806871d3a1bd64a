package service

import (
	"context"
	"math"
	"time"

	"onionpay-api/internal/cache"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/model"
)

const statsWindow = 100

// SessionCounter 在线管理端数量
type SessionCounter interface {
	Count() int
}

type DashboardService struct {
	orders     *OrderService
	productDao *dao.ProductDao
	cache      cache.Cache
	ttl        time.Duration
	sessions   SessionCounter
}

func NewDashboardService(orders *OrderService, productDao *dao.ProductDao, c cache.Cache, ttl time.Duration, sessions SessionCounter) *DashboardService {
	if c == nil {
		c = cache.Nop{}
	}
	return &DashboardService{orders: orders, productDao: productDao, cache: c, ttl: ttl, sessions: sessions}
}

// Stats 统计最近 100 笔订单
func (s *DashboardService) Stats(ctx context.Context) (dto.DashboardStats, error) {
	stats, err := cache.GetOrSet(s.cache, ctx, cache.DashboardStatsKey, s.ttl, func() (dto.DashboardStats, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return stats, err
	}
	if s.sessions != nil {
		stats.ConnectedAdmins = s.sessions.Count()
	}
	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (dto.DashboardStats, error) {
	var out dto.DashboardStats
	orders, err := s.orders.ListRecent(ctx, statsWindow)
	if err != nil {
		return out, err
	}
	active, err := s.productDao.CountActive(ctx)
	if err != nil {
		return out, err
	}
	out.ActiveProducts = active
	return summarize(orders, out), nil
}

func summarize(orders []model.Order, out dto.DashboardStats) dto.DashboardStats {
	var revenue int64
	for i := range orders {
		switch orders[i].Status {
		case model.OrderStatusApproved:
			out.SuccessfulPayments++
			revenue += orders[i].Amount
		case model.OrderStatusPending:
			out.PendingPayments++
		}
	}
	out.TotalRevenue = int64(math.Round(float64(revenue) / 100))
	if len(orders) > 0 {
		out.SuccessRate = math.Round(float64(out.SuccessfulPayments)/float64(len(orders))*1000) / 10
	}
	return out
}

// Invalidate 订单状态变化后清理统计缓存
func (s *DashboardService) Invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.DashboardStatsKey)
}

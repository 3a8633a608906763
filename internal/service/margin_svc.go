package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
)

// ==================== MarginService 解析链装配 ====================

// PricingLayers 一次订单定价要用到的三层数据
// 任何一层拿不到都按 nil 处理，解析链自己会继续往下走
type PricingLayers struct {
	OrderMargin *model.OrderMargin
	Client      *model.Client
	Defaults    *model.PricingSetting
}

// MarginService 负责把解析链需要的各层数据装配起来
// 纯解析逻辑在 ResolveRate，这里只管取数
type MarginService struct {
	settingSvc *PricingSettingService
	clientRepo repository.ClientRepository
	marginRepo repository.OrderMarginRepository
}

// NewMarginService 创建解析链装配服务
func NewMarginService(
	settingSvc *PricingSettingService,
	clientRepo repository.ClientRepository,
	marginRepo repository.OrderMarginRepository,
) *MarginService {
	return &MarginService{
		settingSvc: settingSvc,
		clientRepo: clientRepo,
		marginRepo: marginRepo,
	}
}

// LayersForOrder 装配订单的三层定价数据
// 按约定定价解析不失败：订单级覆盖行、客户行缺失都降级为 nil
func (s *MarginService) LayersForOrder(ctx context.Context, order *model.Order) PricingLayers {
	layers := PricingLayers{
		Defaults: s.settingSvc.Current(ctx),
	}

	margin, err := s.marginRepo.GetByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("读取订单级利润率失败，按未覆盖处理")
	}
	layers.OrderMargin = margin

	client, err := s.clientRepo.GetByID(ctx, order.ClientID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).WithField("client_id", order.ClientID).Warn("读取客户定价覆盖失败，按未覆盖处理")
	}
	layers.Client = client

	return layers
}

// Resolve 解析单个产品行在指定类别下的生效值
func (s *MarginService) Resolve(ctx context.Context, order *model.Order, item *model.LineItem, category model.PriceCategory) Resolution {
	layers := s.LayersForOrder(ctx, order)
	return ResolveRate(category, item, layers.OrderMargin, layers.Client, layers.Defaults)
}

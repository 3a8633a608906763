package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
)

// ==================== OrderService 订单定价 ====================

// OrderService 订单与产品行的定价写入口
// 三条写路径（工厂报价、订单级改率、单行覆盖）全部经过 ResolveRate + ClientPrice，
// 不允许任何入口自己算价
type OrderService struct {
	orderRepo  repository.OrderRepository
	itemRepo   repository.LineItemRepository
	marginRepo repository.OrderMarginRepository
	marginSvc  *MarginService
}

// NewOrderService 创建订单定价服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	itemRepo repository.LineItemRepository,
	marginRepo repository.OrderMarginRepository,
	marginSvc *MarginService,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		marginRepo: marginRepo,
		marginSvc:  marginSvc,
	}
}

// ==================== 基础操作 ====================

// CreateOrder 创建订单（含产品行）
func (s *OrderService) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.OrderNo == "" {
		return errors.New("订单号不能为空")
	}
	if order.ClientID <= 0 {
		return errors.New("必须指定客户")
	}
	return s.orderRepo.Create(ctx, order)
}

// GetOrder 订单详情（含产品行）
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("订单不存在")
		}
		return nil, err
	}
	return order, nil
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.List(ctx, filter)
}

// ==================== 工厂报价 ====================

// SubmitManufacturerCost 工厂提交成本，随即按当前解析链推导全部客户价
// 该行若正被运费合并覆盖，提交的运费成本会被忽略（保持清零），恢复须先解绑
func (s *OrderService) SubmitManufacturerCost(ctx context.Context, itemID int64, req dto.ManufacturerCostReq) error {
	for _, v := range []float64{req.Cost, req.ShippingAirCost, req.ShippingBoatCost, req.SampleFee} {
		if err := ValidateFee(v); err != nil {
			return err
		}
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("产品行不存在")
		}
		return err
	}
	order, err := s.orderRepo.GetByID(ctx, item.OrderID)
	if err != nil {
		return err
	}

	covering, err := s.itemRepo.FindCoveringPrimary(ctx, item.OrderID, item.ID)
	if err != nil {
		return err
	}

	item.ManufacturerCost = req.Cost
	item.SampleFee = req.SampleFee
	if covering != nil {
		// 运费合并生效期间强制保持清零，不能破坏"被覆盖行无自有运费"的不变式
		logrus.WithFields(logrus.Fields{
			"item_id":    item.ID,
			"primary_id": covering.ID,
		}).Warn("该行运费由兄弟行合并承担，本次提交的运费成本被忽略")
		item.ManufacturerShippingAirCost = 0
		item.ManufacturerShippingBoatCost = 0
	} else {
		item.ManufacturerShippingAirCost = req.ShippingAirCost
		item.ManufacturerShippingBoatCost = req.ShippingBoatCost
	}

	layers := s.marginSvc.LayersForOrder(ctx, order)
	fields := map[string]interface{}{
		"manufacturer_cost":               item.ManufacturerCost,
		"manufacturer_shipping_air_cost":  item.ManufacturerShippingAirCost,
		"manufacturer_shipping_boat_cost": item.ManufacturerShippingBoatCost,
		"sample_fee":                      item.SampleFee,
	}
	priceFields, err := RepriceFields(item, layers,
		model.CategoryProduct, model.CategoryShipping, model.CategorySample)
	if err != nil {
		return err
	}
	for k, v := range priceFields {
		fields[k] = v
	}

	return s.itemRepo.UpdateFields(ctx, item.ID, fields)
}

// ==================== 订单级利润率 ====================

// UpdateOrderMargin 编辑订单级利润率（懒 upsert），并重算订单内所有未被产品级覆盖的行
// 返回重算成功的行数；单行写失败跳过不中断
func (s *OrderService) UpdateOrderMargin(ctx context.Context, orderID int64, productPct, shippingPct *float64) (int, error) {
	if productPct != nil {
		if err := ValidateRate(*productPct); err != nil {
			return 0, err
		}
	}
	if shippingPct != nil {
		if err := ValidateRate(*shippingPct); err != nil {
			return 0, err
		}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.New("订单不存在")
		}
		return 0, err
	}

	if err := s.marginRepo.Upsert(ctx, &model.OrderMargin{
		OrderID:           orderID,
		ProductMarginPct:  productPct,
		ShippingMarginPct: shippingPct,
	}); err != nil {
		return 0, err
	}

	// 重新装配解析链（拿到刚写入的订单层），逐行重算
	layers := s.marginSvc.LayersForOrder(ctx, order)
	items, err := s.itemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range items {
		item := &items[i]

		// 带产品级覆盖的类别不动：覆盖值的存在本身就表示人工定过价
		categories := make([]model.PriceCategory, 0, 2)
		if !item.IsClothing && item.ProductMarginOverride == nil {
			categories = append(categories, model.CategoryProduct)
		}
		if item.ShippingMarginOverride == nil {
			categories = append(categories, model.CategoryShipping)
		}
		if len(categories) == 0 {
			continue
		}

		fields, err := RepriceFields(item, layers, categories...)
		if err != nil || len(fields) == 0 {
			continue
		}
		if err := s.itemRepo.UpdateFields(ctx, item.ID, fields); err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("订单级改率后单行重算写入失败，跳过")
			continue
		}
		updated++
	}
	return updated, nil
}

// ==================== 产品级覆盖 ====================

// UpdateItemOverride 设置或清除单行某个类别的覆盖值，并只重算该行该类别
// value 为 nil = 清除覆盖，价格回落到下一层；其余类别的价格一概不动
func (s *OrderService) UpdateItemOverride(ctx context.Context, itemID int64, category model.PriceCategory, value *float64) error {
	var column string
	switch category {
	case model.CategoryProduct:
		column = "product_margin_override"
	case model.CategoryShipping:
		column = "shipping_margin_override"
	case model.CategoryClothing:
		column = "clothing_fee_override"
	default:
		return fmt.Errorf("类别 %s 不支持产品级覆盖", category)
	}

	if value != nil {
		if category == model.CategoryClothing {
			if err := ValidateFee(*value); err != nil {
				return err
			}
		} else if err := ValidateRate(*value); err != nil {
			return err
		}
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("产品行不存在")
		}
		return err
	}
	order, err := s.orderRepo.GetByID(ctx, item.OrderID)
	if err != nil {
		return err
	}

	// 先改内存里的覆盖字段再重算，保证落库的价格和落库的覆盖值一致
	switch category {
	case model.CategoryProduct:
		item.ProductMarginOverride = value
	case model.CategoryShipping:
		item.ShippingMarginOverride = value
	case model.CategoryClothing:
		item.ClothingFeeOverride = value
	}

	layers := s.marginSvc.LayersForOrder(ctx, order)
	fields, err := RepriceFields(item, layers, category)
	if err != nil {
		return err
	}
	fields[column] = value

	return s.itemRepo.UpdateFields(ctx, item.ID, fields)
}

// ==================== 定价详情 ====================

// GetOrderPricing 订单定价详情：每行每类别的生效值和来源层（运营界面用）
func (s *OrderService) GetOrderPricing(ctx context.Context, orderID int64) (*dto.OrderPricingResp, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	layers := s.marginSvc.LayersForOrder(ctx, order)

	resp := &dto.OrderPricingResp{
		OrderID: order.ID,
		OrderNo: order.OrderNo,
		Accessory: dto.ResolutionResp{
			Value:  layers.Defaults.DefaultFor(model.CategoryAccessory),
			Source: string(SourceSystem),
		},
	}

	for i := range order.Items {
		item := &order.Items[i]
		itemResp := dto.ItemPricingResp{
			ItemID:                  item.ID,
			ProductName:             item.ProductName,
			IsClothing:              item.IsClothing,
			ManufacturerCost:        item.ManufacturerCost,
			ClientProductPrice:      item.ClientProductPrice,
			ClientShippingAirPrice:  item.ClientShippingAirPrice,
			ClientShippingBoatPrice: item.ClientShippingBoatPrice,
			ClientSampleFee:         item.ClientSampleFee,
			ShippingLinkNote:        item.ShippingLinkNote,
			ShippingLinkedItemIDs:   item.LinkedItemIDs(),
		}

		productCategory := model.CategoryProduct
		if item.IsClothing {
			productCategory = model.CategoryClothing
		}
		itemResp.Product = toResolutionResp(ResolveRate(productCategory, item, layers.OrderMargin, layers.Client, layers.Defaults))
		itemResp.Shipping = toResolutionResp(ResolveRate(model.CategoryShipping, item, layers.OrderMargin, layers.Client, layers.Defaults))
		itemResp.Sample = toResolutionResp(ResolveRate(model.CategorySample, item, layers.OrderMargin, layers.Client, layers.Defaults))

		resp.Items = append(resp.Items, itemResp)
	}
	return resp, nil
}

func toResolutionResp(r Resolution) dto.ResolutionResp {
	return dto.ResolutionResp{Value: r.Value, Source: string(r.Source)}
}

// ==================== 共享重算例程 ====================

// RepriceFields 按解析链重算单行指定类别的客户价，返回要落库的字段
// 成本为 0 的类别直接跳过（既不计算也不报错），对应字段保持原值
func RepriceFields(item *model.LineItem, layers PricingLayers, categories ...model.PriceCategory) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	for _, category := range categories {
		switch category {
		case model.CategoryProduct, model.CategoryClothing:
			if item.ManufacturerCost <= 0 {
				continue
			}
			// 服装行的产品价走固定加价链，普通行走利润率链
			effective := model.CategoryProduct
			if item.IsClothing {
				effective = model.CategoryClothing
			}
			res := ResolveRate(effective, item, layers.OrderMargin, layers.Client, layers.Defaults)
			price, err := ClientPrice(item.ManufacturerCost, res.Value, effective)
			if err != nil {
				return nil, err
			}
			fields["client_product_price"] = price

		case model.CategoryShipping:
			if item.ManufacturerShippingAirCost <= 0 && item.ManufacturerShippingBoatCost <= 0 {
				continue
			}
			res := ResolveRate(model.CategoryShipping, item, layers.OrderMargin, layers.Client, layers.Defaults)
			airPrice, err := ClientPrice(item.ManufacturerShippingAirCost, res.Value, model.CategoryShipping)
			if err != nil {
				return nil, err
			}
			boatPrice, err := ClientPrice(item.ManufacturerShippingBoatCost, res.Value, model.CategoryShipping)
			if err != nil {
				return nil, err
			}
			fields["client_shipping_air_price"] = airPrice
			fields["client_shipping_boat_price"] = boatPrice

		case model.CategorySample:
			if item.SampleFee <= 0 {
				continue
			}
			res := ResolveRate(model.CategorySample, item, layers.OrderMargin, layers.Client, layers.Defaults)
			fee, err := ClientPrice(item.SampleFee, res.Value, model.CategorySample)
			if err != nil {
				return nil, err
			}
			fields["client_sample_fee"] = fee
		}
	}
	return fields, nil
}

package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
	"mfg_erp_v1_202608/pkg/notify"
)

// ==================== RecalcService 批量重算 ====================

// RecalcService 按类别批量重算一个订单的客户价
//
// 运营在重算面板上勾选类别，可以给每个类别临时填一个自定义率/加价，
// 只对本次重算生效；留空或填了无效值就用系统默认值。
//
// 一行一次独立写入，顺序执行，没有事务也没有锁：
// 单行失败记日志跳过，最终返回成功行数——部分成功是正常结果，不是错误
type RecalcService struct {
	orderRepo     repository.OrderRepository
	itemRepo      repository.LineItemRepository
	accessoryRepo repository.AccessoryRepository
	marginSvc     *MarginService
	notifier      notify.Notifier
}

// NewRecalcService 创建批量重算服务
func NewRecalcService(
	orderRepo repository.OrderRepository,
	itemRepo repository.LineItemRepository,
	accessoryRepo repository.AccessoryRepository,
	marginSvc *MarginService,
	notifier notify.Notifier,
) *RecalcService {
	return &RecalcService{
		orderRepo:     orderRepo,
		itemRepo:      itemRepo,
		accessoryRepo: accessoryRepo,
		marginSvc:     marginSvc,
		notifier:      notifier,
	}
}

// Recalculate 执行批量重算，返回成功更新的记录数
func (s *RecalcService) Recalculate(ctx context.Context, orderID int64, req dto.RecalcReq) (int, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.New("订单不存在")
		}
		return 0, err
	}

	layers := s.marginSvc.LayersForOrder(ctx, order)

	items, err := s.itemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}

	updated := 0
	categories := make([]string, 0, 5)

	if req.RegularProducts {
		categories = append(categories, string(model.CategoryProduct))
		updated += s.recalcRegularProducts(ctx, items, layers, req.ProductRate)
	}
	if req.ClothingProducts {
		categories = append(categories, string(model.CategoryClothing))
		updated += s.recalcClothingProducts(ctx, items, layers, req.ClothingFee)
	}
	if req.Samples {
		categories = append(categories, string(model.CategorySample))
		updated += s.recalcSamples(ctx, items, layers, req.SampleRate)
	}
	if req.Shipping {
		categories = append(categories, string(model.CategoryShipping))
		updated += s.recalcShipping(ctx, items, layers, req.ShippingRate)
	}
	if req.Accessories {
		categories = append(categories, string(model.CategoryAccessory))
		updated += s.recalcAccessories(ctx, order, layers, req.AccessoryRate)
	}

	s.notifier.Publish(ctx, notify.EventRecalcCompleted, map[string]interface{}{
		"order_id":   orderID,
		"categories": categories,
		"updated":    updated,
	})
	return updated, nil
}

// ==================== 各类别的重算 ====================

// recalcRegularProducts 普通产品：重算所有非服装行的产品价
// 本次用的率和系统默认不同才写产品级覆盖，相同则清空覆盖（回到继承状态）
func (s *RecalcService) recalcRegularProducts(ctx context.Context, items []model.LineItem, layers PricingLayers, rawRate string) int {
	systemDefault := layers.Defaults.DefaultFor(model.CategoryProduct)
	rate := customOrDefault(rawRate, systemDefault)

	count := 0
	for i := range items {
		item := &items[i]
		if item.IsClothing || item.ManufacturerCost <= 0 {
			continue
		}
		price, err := ClientPrice(item.ManufacturerCost, rate, model.CategoryProduct)
		if err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("产品价重算失败，跳过")
			continue
		}
		fields := map[string]interface{}{
			"client_product_price":    price,
			"product_margin_override": overrideValue(rate, systemDefault),
		}
		if err := s.itemRepo.UpdateFields(ctx, item.ID, fields); err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("产品价写入失败，跳过")
			continue
		}
		count++
	}
	return count
}

// recalcClothingProducts 服装产品：固定加价，永远是加法
func (s *RecalcService) recalcClothingProducts(ctx context.Context, items []model.LineItem, layers PricingLayers, rawFee string) int {
	systemDefault := layers.Defaults.DefaultFor(model.CategoryClothing)
	fee := customFeeOrDefault(rawFee, systemDefault)

	count := 0
	for i := range items {
		item := &items[i]
		if !item.IsClothing || item.ManufacturerCost <= 0 {
			continue
		}
		price, err := ClientPrice(item.ManufacturerCost, fee, model.CategoryClothing)
		if err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("服装价重算失败，跳过")
			continue
		}
		fields := map[string]interface{}{
			"client_product_price":  price,
			"clothing_fee_override": overrideValue(fee, systemDefault),
		}
		if err := s.itemRepo.UpdateFields(ctx, item.ID, fields); err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("服装价写入失败，跳过")
			continue
		}
		count++
	}
	return count
}

// recalcSamples 样品费：没有产品/订单层覆盖字段，留空时用客户层→系统层解析出来的率
// 也不写任何覆盖标记（表里根本没这列）
func (s *RecalcService) recalcSamples(ctx context.Context, items []model.LineItem, layers PricingLayers, rawRate string) int {
	resolved := ResolveRate(model.CategorySample, nil, nil, layers.Client, layers.Defaults)
	rate := customOrDefault(rawRate, resolved.Value)

	count := 0
	for i := range items {
		item := &items[i]
		if item.SampleFee <= 0 {
			continue
		}
		fee, err := ClientPrice(item.SampleFee, rate, model.CategorySample)
		if err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("样品费重算失败，跳过")
			continue
		}
		if err := s.itemRepo.UpdateFields(ctx, item.ID, map[string]interface{}{
			"client_sample_fee": fee,
		}); err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("样品费写入失败，跳过")
			continue
		}
		count++
	}
	return count
}

// recalcShipping 运费：空运海运一起重算，覆盖标记逻辑与产品价一致
// 被运费合并清零的行成本为 0，自然被跳过，不会被重算出价格
func (s *RecalcService) recalcShipping(ctx context.Context, items []model.LineItem, layers PricingLayers, rawRate string) int {
	systemDefault := layers.Defaults.DefaultFor(model.CategoryShipping)
	rate := customOrDefault(rawRate, systemDefault)

	count := 0
	for i := range items {
		item := &items[i]
		if item.ManufacturerShippingAirCost <= 0 && item.ManufacturerShippingBoatCost <= 0 {
			continue
		}
		airPrice, err := ClientPrice(item.ManufacturerShippingAirCost, rate, model.CategoryShipping)
		if err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("运费重算失败，跳过")
			continue
		}
		boatPrice, err := ClientPrice(item.ManufacturerShippingBoatCost, rate, model.CategoryShipping)
		if err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("运费重算失败，跳过")
			continue
		}
		fields := map[string]interface{}{
			"client_shipping_air_price":  airPrice,
			"client_shipping_boat_price": boatPrice,
			"shipping_margin_override":   overrideValue(rate, systemDefault),
		}
		if err := s.itemRepo.UpdateFields(ctx, item.ID, fields); err != nil {
			logrus.WithError(err).WithField("item_id", item.ID).Warn("运费写入失败，跳过")
			continue
		}
		count++
	}
	return count
}

// recalcAccessories 辅料：唯一改别的表的类别
// 范围 = 订单客户名下的辅料库存，订单绑定了工厂时再按工厂过滤
func (s *RecalcService) recalcAccessories(ctx context.Context, order *model.Order, layers PricingLayers, rawRate string) int {
	systemDefault := layers.Defaults.DefaultFor(model.CategoryAccessory)
	rate := customOrDefault(rawRate, systemDefault)

	var manufacturerID int64
	if order.ManufacturerID != nil {
		manufacturerID = *order.ManufacturerID
	}

	accessories, err := s.accessoryRepo.ListByClient(ctx, order.ClientID, manufacturerID)
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("辅料列表查询失败，辅料类别跳过")
		return 0
	}

	count := 0
	for i := range accessories {
		acc := &accessories[i]
		if acc.ManufacturerUnitCost <= 0 {
			continue
		}
		unitCost, err := ClientPrice(acc.ManufacturerUnitCost, rate, model.CategoryAccessory)
		if err != nil {
			logrus.WithError(err).WithField("accessory_id", acc.ID).Warn("辅料单价重算失败，跳过")
			continue
		}
		if err := s.accessoryRepo.UpdateFields(ctx, acc.ID, map[string]interface{}{
			"client_unit_cost": unitCost,
		}); err != nil {
			logrus.WithError(err).WithField("accessory_id", acc.ID).Warn("辅料单价写入失败，跳过")
			continue
		}
		count++
	}
	return count
}

// ==================== 自定义值解析 ====================

// customOrDefault 解析面板上填的自定义值
// 留空、非数字、0、负数、超出利润率上限——全部按"没填"处理，落回默认值
// 注意落回的是默认值而不是 0：历史上有人填 0 想免费，结果把全订单价格清零过
func customOrDefault(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v > model.MarginPctMax {
		return fallback
	}
	return v
}

// customFeeOrDefault 服装固定加价的面板值解析
// 加价是金额不是利润率，没有 500 上限，0 也是合法值（不加价原价卖）；
// 只有留空/非数字/负数按"没填"处理，落回默认值
func customFeeOrDefault(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// overrideValue 本次率和系统默认不同 → 写覆盖；相同 → 清空回到继承状态
func overrideValue(rate, systemDefault float64) *float64 {
	if rate != systemDefault {
		return &rate
	}
	return nil
}

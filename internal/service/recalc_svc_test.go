package service

import (
	"context"
	"errors"
	"testing"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
	"mfg_erp_v1_202608/pkg/notify"
)

// ==================== 测试辅助 ====================

// flakyItemRepo 对指定行注入写失败，其余透传
type flakyItemRepo struct {
	repository.LineItemRepository
	failID int64
}

func (r *flakyItemRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if id == r.failID {
		return errors.New("模拟写入失败")
	}
	return r.LineItemRepository.UpdateFields(ctx, id, fields)
}

func newRecalcSvc(env *pricingTestEnv, itemRepo repository.LineItemRepository, notifier notify.Notifier) *RecalcService {
	if itemRepo == nil {
		itemRepo = env.itemRepo
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return NewRecalcService(env.orderRepo, itemRepo, env.accessoryRepo, env.marginSvc, notifier)
}

// ==================== 普通产品 ====================

func TestRecalculate_RegularProductsWithCustomRate(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	plain1 := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "A", ManufacturerCost: 10})
	plain2 := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "B", ManufacturerCost: 4})
	clothing := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "服装", IsClothing: true,
		ManufacturerCost: 15, ClientProductPrice: 15,
	})

	svc := newRecalcSvc(env, nil, nil)
	updated, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{
		RegularProducts: true,
		ProductRate:     "100",
	})
	if err != nil {
		t.Fatalf("重算失败: %v", err)
	}
	if updated != 2 {
		t.Errorf("更新行数不正确: got %d, want 2", updated)
	}

	// 自定义率 100% 与系统默认 80% 不同，写产品级覆盖
	got := env.reloadItem(t, plain1.ID)
	if got.ClientProductPrice != 20.00 {
		t.Errorf("产品价不正确: got %v, want 20", got.ClientProductPrice)
	}
	if got.ProductMarginOverride == nil || *got.ProductMarginOverride != 100 {
		t.Errorf("应写入产品级覆盖 100: %+v", got.ProductMarginOverride)
	}
	if got := env.reloadItem(t, plain2.ID); got.ClientProductPrice != 8.00 {
		t.Errorf("产品价不正确: got %v, want 8", got.ClientProductPrice)
	}

	// 服装行不属于 regular_products
	if got := env.reloadItem(t, clothing.ID); got.ClientProductPrice != 15 {
		t.Errorf("服装行不应被普通产品重算触碰: got %v", got.ClientProductPrice)
	}
}

func TestRecalculate_CustomRateEqualToDefaultClearsOverride(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	item := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "A",
		ManufacturerCost: 10, ProductMarginOverride: fptr(30), ClientProductPrice: 13,
	})

	svc := newRecalcSvc(env, nil, nil)
	// 填的就是系统默认 80：覆盖清空，回到继承状态
	if _, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{
		RegularProducts: true,
		ProductRate:     "80",
	}); err != nil {
		t.Fatalf("重算失败: %v", err)
	}

	got := env.reloadItem(t, item.ID)
	if got.ProductMarginOverride != nil {
		t.Errorf("与默认值相同应清空覆盖: %+v", got.ProductMarginOverride)
	}
	if got.ClientProductPrice != 18.00 {
		t.Errorf("产品价不正确: got %v, want 18", got.ClientProductPrice)
	}
}

func TestRecalculate_InvalidCustomValueFallsToDefault(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"留空", ""},
		{"非数字", "abc"},
		{"零", "0"},
		{"负数", "-10"},
		{"超上限", "600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupPricingTestEnv(t)
			order := env.seedOrder(t)
			item := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "A", ManufacturerCost: 10})

			svc := newRecalcSvc(env, nil, nil)
			if _, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{
				RegularProducts: true,
				ProductRate:     tt.raw,
			}); err != nil {
				t.Fatalf("重算失败: %v", err)
			}

			// 无效值落回系统默认 80，不写覆盖，更不会把价格清零
			got := env.reloadItem(t, item.ID)
			if got.ClientProductPrice != 18.00 {
				t.Errorf("应按系统默认 80%% 计价: got %v", got.ClientProductPrice)
			}
			if got.ProductMarginOverride != nil {
				t.Errorf("落回默认值不应写覆盖: %+v", got.ProductMarginOverride)
			}
		})
	}
}

// ==================== 服装 ====================

func TestRecalculate_ClothingIsAdditive(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	clothing := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "服装", IsClothing: true, ManufacturerCost: 15,
	})
	plain := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "普通", ManufacturerCost: 10, ClientProductPrice: 18,
	})

	svc := newRecalcSvc(env, nil, nil)
	updated, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{
		ClothingProducts: true,
		ClothingFee:      "5",
	})
	if err != nil {
		t.Fatalf("重算失败: %v", err)
	}
	if updated != 1 {
		t.Errorf("更新行数不正确: got %d, want 1", updated)
	}

	got := env.reloadItem(t, clothing.ID)
	if got.ClientProductPrice != 20.00 {
		t.Errorf("服装价应为 15+5=20: got %v", got.ClientProductPrice)
	}
	if got.ClothingFeeOverride == nil || *got.ClothingFeeOverride != 5 {
		t.Errorf("应写入服装加价覆盖 5: %+v", got.ClothingFeeOverride)
	}
	if got := env.reloadItem(t, plain.ID); got.ClientProductPrice != 18 {
		t.Errorf("普通行不应被服装重算触碰: got %v", got.ClientProductPrice)
	}
}

func TestRecalculate_ClothingFeeHasNoRateCap(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	clothing := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "服装", IsClothing: true, ManufacturerCost: 15,
	})
	ctx := context.Background()

	// 单行路径先接受 600：加价是金额，不受利润率 500 上限约束
	if err := env.orderSvc.UpdateItemOverride(ctx, clothing.ID, model.CategoryClothing, fptr(600)); err != nil {
		t.Fatalf("单行路径设置加价 600 失败: %v", err)
	}
	if got := env.reloadItem(t, clothing.ID); got.ClientProductPrice != 615.00 {
		t.Fatalf("单行路径价格不正确: got %v, want 615", got.ClientProductPrice)
	}

	// 批量路径填同样的 600 必须得到同样的结果，不能悄悄落回默认值
	svc := newRecalcSvc(env, nil, nil)
	updated, err := svc.Recalculate(ctx, order.ID, dto.RecalcReq{
		ClothingProducts: true,
		ClothingFee:      "600",
	})
	if err != nil {
		t.Fatalf("重算失败: %v", err)
	}
	if updated != 1 {
		t.Errorf("更新行数不正确: got %d, want 1", updated)
	}

	got := env.reloadItem(t, clothing.ID)
	if got.ClientProductPrice != 615.00 {
		t.Errorf("批量路径价格应与单行路径一致: got %v, want 615", got.ClientProductPrice)
	}
	if got.ClothingFeeOverride == nil || *got.ClothingFeeOverride != 600 {
		t.Errorf("加价覆盖 600 不应被清掉: %+v", got.ClothingFeeOverride)
	}
}

func TestRecalculate_ClothingFeeZeroIsValid(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	clothing := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "服装", IsClothing: true,
		ManufacturerCost: 15, ClothingFeeOverride: fptr(12), ClientProductPrice: 27,
	})

	// 0 对加价是合法值（原价卖），与系统默认 0 相同则清覆盖回到继承
	svc := newRecalcSvc(env, nil, nil)
	if _, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{
		ClothingProducts: true,
		ClothingFee:      "0",
	}); err != nil {
		t.Fatalf("重算失败: %v", err)
	}

	got := env.reloadItem(t, clothing.ID)
	if got.ClientProductPrice != 15.00 {
		t.Errorf("零加价应按原价: got %v, want 15", got.ClientProductPrice)
	}
	if got.ClothingFeeOverride != nil {
		t.Errorf("与默认值相同应清空覆盖: %+v", got.ClothingFeeOverride)
	}
}

// ==================== 样品费 ====================

func TestRecalculate_SamplesUseClientLayerWhenBlank(t *testing.T) {
	env := setupPricingTestEnv(t)

	client := &model.Client{Name: "测试客户", SampleMarginPct: fptr(50)}
	if err := env.db.Create(client).Error; err != nil {
		t.Fatalf("写入客户失败: %v", err)
	}
	order := &model.Order{OrderNo: "PO-2026-010", ClientID: client.ID}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("写入订单失败: %v", err)
	}
	withSample := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "A", SampleFee: 20})
	noSample := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "B"})

	svc := newRecalcSvc(env, nil, nil)
	updated, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{Samples: true})
	if err != nil {
		t.Fatalf("重算失败: %v", err)
	}
	if updated != 1 {
		t.Errorf("更新行数不正确: got %d, want 1", updated)
	}

	// 留空时用客户级 50% 而不是系统默认 80%
	if got := env.reloadItem(t, withSample.ID); got.ClientSampleFee != 30.00 {
		t.Errorf("样品费应按客户级 50%% 计价: got %v, want 30", got.ClientSampleFee)
	}
	// 无样品费的行跳过
	if got := env.reloadItem(t, noSample.ID); got.ClientSampleFee != 0 {
		t.Errorf("无样品费的行不应被触碰: got %v", got.ClientSampleFee)
	}
}

// ==================== 运费 ====================

func TestRecalculate_ShippingSkipsZeroedCoveredRows(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	normal := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "正常行",
		ManufacturerShippingAirCost: 100, ManufacturerShippingBoatCost: 40,
	})
	// 被运费合并清零过的行：成本为 0，自然跳过
	covered := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "被覆盖行"})

	svc := newRecalcSvc(env, nil, nil)
	updated, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{
		Shipping:     true,
		ShippingRate: "10",
	})
	if err != nil {
		t.Fatalf("重算失败: %v", err)
	}
	if updated != 1 {
		t.Errorf("更新行数不正确: got %d, want 1", updated)
	}

	got := env.reloadItem(t, normal.ID)
	if got.ClientShippingAirPrice != 110.00 || got.ClientShippingBoatPrice != 44.00 {
		t.Errorf("运费价不正确: air=%v boat=%v", got.ClientShippingAirPrice, got.ClientShippingBoatPrice)
	}
	if got.ShippingMarginOverride == nil || *got.ShippingMarginOverride != 10 {
		t.Errorf("应写入运费覆盖 10: %+v", got.ShippingMarginOverride)
	}
	if got := env.reloadItem(t, covered.ID); got.ClientShippingAirPrice != 0 {
		t.Errorf("零成本行不应被重算出价格: got %v", got.ClientShippingAirPrice)
	}
}

func TestRecalculate_ShippingOnlyLeavesOtherCategoriesUntouched(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	plain := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "普通行",
		ManufacturerCost: 10, ClientProductPrice: 18,
		SampleFee: 20, ClientSampleFee: 36,
		ManufacturerShippingAirCost: 100, ClientShippingAirPrice: 105,
	})
	clothing := env.seedItem(t, &model.LineItem{
		OrderID: order.ID, ProductName: "服装", IsClothing: true,
		ManufacturerCost: 15, ClothingFeeOverride: fptr(12), ClientProductPrice: 27,
		ManufacturerShippingBoatCost: 40, ClientShippingBoatPrice: 42,
	})

	svc := newRecalcSvc(env, nil, nil)
	if _, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{
		Shipping:     true,
		ShippingRate: "10",
	}); err != nil {
		t.Fatalf("重算失败: %v", err)
	}

	// 运费价按新率重算
	gotPlain := env.reloadItem(t, plain.ID)
	if gotPlain.ClientShippingAirPrice != 110.00 {
		t.Errorf("运费价不正确: got %v, want 110", gotPlain.ClientShippingAirPrice)
	}

	// 其他类别一概不动：产品价、样品费、服装加价覆盖全部保持原值
	if gotPlain.ClientProductPrice != 18 {
		t.Errorf("只勾运费不应动产品价: got %v", gotPlain.ClientProductPrice)
	}
	if gotPlain.ClientSampleFee != 36 {
		t.Errorf("只勾运费不应动样品费: got %v", gotPlain.ClientSampleFee)
	}
	gotClothing := env.reloadItem(t, clothing.ID)
	if gotClothing.ClientProductPrice != 27 {
		t.Errorf("只勾运费不应动服装价: got %v", gotClothing.ClientProductPrice)
	}
	if gotClothing.ClothingFeeOverride == nil || *gotClothing.ClothingFeeOverride != 12 {
		t.Errorf("只勾运费不应动服装加价覆盖: %+v", gotClothing.ClothingFeeOverride)
	}
}

// ==================== 辅料 ====================

func TestRecalculate_AccessoriesScopedToClientAndManufacturer(t *testing.T) {
	env := setupPricingTestEnv(t)
	ctx := context.Background()

	client := &model.Client{Name: "测试客户"}
	otherClient := &model.Client{Name: "别家客户"}
	manufacturer := &model.Manufacturer{Name: "工厂甲"}
	otherMfr := &model.Manufacturer{Name: "工厂乙"}
	for _, rec := range []interface{}{client, otherClient, manufacturer, otherMfr} {
		if err := env.db.Create(rec).Error; err != nil {
			t.Fatalf("写入基础数据失败: %v", err)
		}
	}

	order := &model.Order{OrderNo: "PO-2026-020", ClientID: client.ID, ManufacturerID: &manufacturer.ID}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("写入订单失败: %v", err)
	}

	inScope := &model.AccessoryInventory{
		ClientID: client.ID, ManufacturerID: &manufacturer.ID,
		Name: "吊牌", ManufacturerUnitCost: 2,
	}
	wrongMfr := &model.AccessoryInventory{
		ClientID: client.ID, ManufacturerID: &otherMfr.ID,
		Name: "织唛", ManufacturerUnitCost: 3, ClientUnitCost: 6,
	}
	wrongClient := &model.AccessoryInventory{
		ClientID: otherClient.ID, ManufacturerID: &manufacturer.ID,
		Name: "包装袋", ManufacturerUnitCost: 1, ClientUnitCost: 2,
	}
	for _, acc := range []*model.AccessoryInventory{inScope, wrongMfr, wrongClient} {
		if err := env.db.Create(acc).Error; err != nil {
			t.Fatalf("写入辅料失败: %v", err)
		}
	}

	svc := newRecalcSvc(env, nil, nil)
	updated, err := svc.Recalculate(ctx, order.ID, dto.RecalcReq{Accessories: true})
	if err != nil {
		t.Fatalf("重算失败: %v", err)
	}
	if updated != 1 {
		t.Errorf("更新条数不正确: got %d, want 1", updated)
	}

	// 范围内：系统默认 100% → 2 × 2 = 4
	reloaded, err := env.accessoryRepo.GetByID(ctx, inScope.ID)
	if err != nil {
		t.Fatalf("读取辅料失败: %v", err)
	}
	if reloaded.ClientUnitCost != 4.00 {
		t.Errorf("辅料客户单价不正确: got %v, want 4", reloaded.ClientUnitCost)
	}

	// 范围外的不动
	if got, _ := env.accessoryRepo.GetByID(ctx, wrongMfr.ID); got.ClientUnitCost != 6 {
		t.Errorf("其他工厂的辅料不应被触碰: got %v", got.ClientUnitCost)
	}
	if got, _ := env.accessoryRepo.GetByID(ctx, wrongClient.ID); got.ClientUnitCost != 2 {
		t.Errorf("其他客户的辅料不应被触碰: got %v", got.ClientUnitCost)
	}
}

// ==================== 部分成功 ====================

func TestRecalculate_SingleRowFailureIsSkipped(t *testing.T) {
	env := setupPricingTestEnv(t)
	order := env.seedOrder(t)
	ok1 := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "A", ManufacturerCost: 10})
	bad := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "B", ManufacturerCost: 10, ClientProductPrice: 1})
	ok2 := env.seedItem(t, &model.LineItem{OrderID: order.ID, ProductName: "C", ManufacturerCost: 10})

	notifier := &recordingNotifier{}
	svc := newRecalcSvc(env, &flakyItemRepo{LineItemRepository: env.itemRepo, failID: bad.ID}, notifier)

	updated, err := svc.Recalculate(context.Background(), order.ID, dto.RecalcReq{RegularProducts: true})
	if err != nil {
		t.Fatalf("部分失败不应返回错误: %v", err)
	}
	if updated != 2 {
		t.Errorf("应返回成功行数 2: got %d", updated)
	}

	// 失败行之后的行照常处理
	if got := env.reloadItem(t, ok1.ID); got.ClientProductPrice != 18.00 {
		t.Errorf("首行未重算: got %v", got.ClientProductPrice)
	}
	if got := env.reloadItem(t, ok2.ID); got.ClientProductPrice != 18.00 {
		t.Errorf("失败行之后的行未重算: got %v", got.ClientProductPrice)
	}
	if got := env.reloadItem(t, bad.ID); got.ClientProductPrice != 1 {
		t.Errorf("失败行不应有任何写入: got %v", got.ClientProductPrice)
	}

	// 部分成功也发完成事件
	if len(notifier.events) != 1 || notifier.events[0] != notify.EventRecalcCompleted {
		t.Errorf("应发布重算完成事件: %v", notifier.events)
	}
}

func TestRecalculate_OrderNotFound(t *testing.T) {
	env := setupPricingTestEnv(t)
	svc := newRecalcSvc(env, nil, nil)

	if _, err := svc.Recalculate(context.Background(), 9999, dto.RecalcReq{RegularProducts: true}); err == nil {
		t.Error("不存在的订单应报错")
	}
}

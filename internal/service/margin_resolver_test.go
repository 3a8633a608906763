package service

import (
	"testing"

	"mfg_erp_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

func fptr(v float64) *float64 {
	return &v
}

func defaultSetting() *model.PricingSetting {
	return &model.PricingSetting{
		ProductMarginPct:   80,
		ShippingMarginPct:  5,
		SampleMarginPct:    80,
		AccessoryMarginPct: 100,
		ClothingFlatFee:    0,
	}
}

// ==================== 产品/运费：四层链 ====================

func TestResolveRate_ProductChainPrecedence(t *testing.T) {
	item := &model.LineItem{ProductMarginOverride: fptr(30)}
	margin := &model.OrderMargin{ProductMarginPct: fptr(40)}
	client := &model.Client{ProductMarginPct: fptr(50)}
	defaults := defaultSetting()

	tests := []struct {
		name       string
		item       *model.LineItem
		margin     *model.OrderMargin
		client     *model.Client
		wantValue  float64
		wantSource RateSource
	}{
		{"产品级覆盖优先", item, margin, client, 30, SourceItem},
		{"无产品级时取订单级", &model.LineItem{}, margin, client, 40, SourceOrder},
		{"无订单级时取客户级", &model.LineItem{}, &model.OrderMargin{}, client, 50, SourceClient},
		{"全空时取系统默认", &model.LineItem{}, &model.OrderMargin{}, &model.Client{}, 80, SourceSystem},
		{"各层整行缺失等同字段为空", nil, nil, nil, 80, SourceSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRate(model.CategoryProduct, tt.item, tt.margin, tt.client, defaults)
			if got.Value != tt.wantValue {
				t.Errorf("生效值不正确: got %v, want %v", got.Value, tt.wantValue)
			}
			if got.Source != tt.wantSource {
				t.Errorf("来源层不正确: got %s, want %s", got.Source, tt.wantSource)
			}
		})
	}
}

func TestResolveRate_ShippingChainIndependentOfProduct(t *testing.T) {
	// 运费链和产品链互不影响：只设产品覆盖，运费仍落到自己的链
	item := &model.LineItem{ProductMarginOverride: fptr(30)}
	client := &model.Client{ShippingMarginPct: fptr(8)}

	got := ResolveRate(model.CategoryShipping, item, nil, client, defaultSetting())
	if got.Value != 8 || got.Source != SourceClient {
		t.Errorf("运费解析被产品覆盖污染: got %+v", got)
	}
}

// ==================== 兜底值 ====================

func TestResolveRate_FallbackWhenNoSettingRow(t *testing.T) {
	// 系统配置行缺失时各类别落兜底常量，解析永远有结果
	tests := []struct {
		category model.PriceCategory
		want     float64
	}{
		{model.CategoryProduct, 80},
		{model.CategoryShipping, 5},
		{model.CategorySample, 80},
		{model.CategoryAccessory, 100},
		{model.CategoryClothing, 0},
	}

	for _, tt := range tests {
		got := ResolveRate(tt.category, nil, nil, nil, nil)
		if got.Value != tt.want {
			t.Errorf("类别 %s 兜底值不正确: got %v, want %v", tt.category, got.Value, tt.want)
		}
		if got.Source != SourceSystem {
			t.Errorf("类别 %s 兜底来源应为 system: got %s", tt.category, got.Source)
		}
	}
}

// ==================== 样品费：客户级 → 系统 ====================

func TestResolveRate_SampleSkipsItemAndOrderLayers(t *testing.T) {
	// 样品费没有产品/订单层字段，即便这两层设了产品覆盖也不参与
	item := &model.LineItem{ProductMarginOverride: fptr(10)}
	margin := &model.OrderMargin{ProductMarginPct: fptr(20)}

	got := ResolveRate(model.CategorySample, item, margin, nil, defaultSetting())
	if got.Value != 80 || got.Source != SourceSystem {
		t.Errorf("样品费不应读产品/订单层: got %+v", got)
	}

	client := &model.Client{SampleMarginPct: fptr(60)}
	got = ResolveRate(model.CategorySample, item, margin, client, defaultSetting())
	if got.Value != 60 || got.Source != SourceClient {
		t.Errorf("样品费客户级覆盖未生效: got %+v", got)
	}
}

// ==================== 服装：产品级 → 系统 ====================

func TestResolveRate_ClothingChain(t *testing.T) {
	defaults := defaultSetting()
	defaults.ClothingFlatFee = 5

	item := &model.LineItem{IsClothing: true, ClothingFeeOverride: fptr(12)}
	got := ResolveRate(model.CategoryClothing, item, nil, nil, defaults)
	if got.Value != 12 || got.Source != SourceItem {
		t.Errorf("服装产品级加价未生效: got %+v", got)
	}

	// 无覆盖时取系统固定加价；客户/订单层没有服装字段
	margin := &model.OrderMargin{ProductMarginPct: fptr(40)}
	client := &model.Client{ProductMarginPct: fptr(50)}
	got = ResolveRate(model.CategoryClothing, &model.LineItem{IsClothing: true}, margin, client, defaults)
	if got.Value != 5 || got.Source != SourceSystem {
		t.Errorf("服装系统加价未生效: got %+v", got)
	}
}

// ==================== 辅料：只有系统层 ====================

func TestResolveRate_AccessoryOnlySystemLayer(t *testing.T) {
	// 客户层历史上就没有辅料覆盖字段，哪怕其他覆盖都设了也只认系统值
	item := &model.LineItem{ProductMarginOverride: fptr(10), ShippingMarginOverride: fptr(10)}
	margin := &model.OrderMargin{ProductMarginPct: fptr(20), ShippingMarginPct: fptr(20)}
	client := &model.Client{
		ProductMarginPct:  fptr(30),
		ShippingMarginPct: fptr(30),
		SampleMarginPct:   fptr(30),
	}

	got := ResolveRate(model.CategoryAccessory, item, margin, client, defaultSetting())
	if got.Value != 100 || got.Source != SourceSystem {
		t.Errorf("辅料应只取系统层: got %+v", got)
	}
}

package service

import (
	"mfg_erp_v1_202608/internal/model"
)

// ==================== 利润率解析 ====================

// RateSource 生效值来自哪一层
type RateSource string

const (
	SourceItem   RateSource = "item"   // 产品级覆盖
	SourceOrder  RateSource = "order"  // 订单级覆盖
	SourceClient RateSource = "client" // 客户级覆盖
	SourceSystem RateSource = "system" // 系统默认（含表行缺失时的兜底值）
)

// Resolution 解析结果：生效的利润率/加价金额 + 来源层
type Resolution struct {
	Value  float64    `json:"value"`
	Source RateSource `json:"source"`
}

// ResolveRate 按 产品级 → 订单级 → 客户级 → 系统默认 逐层解析指定类别的生效值
//
// 各层是否存在由类别决定，模型上的 OverrideFor 对不存在的层直接返回 nil：
//   - product / shipping: 四层齐全
//   - clothing:           产品级 → 系统默认（固定加价，订单/客户层无此字段）
//   - sample:             客户级 → 系统默认（产品/订单层无此字段）
//   - accessory:          只有系统默认（客户层覆盖历史上就没建，保持现状）
//
// 任何一层都查不到时落到兜底常量，解析永远有结果，不返回错误
func ResolveRate(
	category model.PriceCategory,
	item *model.LineItem,
	orderMargin *model.OrderMargin,
	client *model.Client,
	defaults *model.PricingSetting,
) Resolution {
	if v := item.OverrideFor(category); v != nil {
		return Resolution{Value: *v, Source: SourceItem}
	}
	if v := orderMargin.OverrideFor(category); v != nil {
		return Resolution{Value: *v, Source: SourceOrder}
	}
	if v := client.OverrideFor(category); v != nil {
		return Resolution{Value: *v, Source: SourceClient}
	}
	// defaults 为 nil 时 DefaultFor 内部落兜底常量
	return Resolution{Value: defaults.DefaultFor(category), Source: SourceSystem}
}

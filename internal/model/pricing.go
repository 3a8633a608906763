package model

// ==================== 价格类别常量 ====================

// PriceCategory 价格类别
// 每个类别有自己的解析链（见 service.ResolveRate），不同类别之间互不影响
type PriceCategory string

const (
	CategoryProduct   PriceCategory = "product"   // 普通产品（按利润率加价）
	CategoryShipping  PriceCategory = "shipping"  // 运费（按利润率加价，空运/海运共用一个率）
	CategorySample    PriceCategory = "sample"    // 样品费（按利润率加价）
	CategoryClothing  PriceCategory = "clothing"  // 服装类产品（固定加价，不按百分比）
	CategoryAccessory PriceCategory = "accessory" // 辅料库存（按利润率加价）
)

// ==================== 兜底默认值 ====================

// 系统配置行缺失时的兜底值，保证解析永远有结果
// 注意：这些不是业务默认值，业务默认值存在 pricing_settings 表里
const (
	FallbackProductMarginPct   = 80.0
	FallbackShippingMarginPct  = 5.0
	FallbackSampleMarginPct    = 80.0
	FallbackAccessoryMarginPct = 100.0
	FallbackClothingFlatFee    = 0.0
)

// 利润率合法区间（百分比）
const (
	MarginPctMin = 0.0
	MarginPctMax = 500.0
)

// ==================== PricingSetting 系统定价默认值 ====================

// PricingSetting 系统级定价默认值（单行表，id 固定为 1）
// 后台配置页维护，改动频率很低，服务层做了 TTL 缓存
type PricingSetting struct {
	BaseModel
	ProductMarginPct   float64 `gorm:"not null;default:80"`  // 普通产品利润率 %
	ShippingMarginPct  float64 `gorm:"not null;default:5"`   // 运费利润率 %
	SampleMarginPct    float64 `gorm:"not null;default:80"`  // 样品费利润率 %
	AccessoryMarginPct float64 `gorm:"not null;default:100"` // 辅料利润率 %
	ClothingFlatFee    float64 `gorm:"not null;default:0"`   // 服装类固定加价（金额，非百分比）
}

func (PricingSetting) TableName() string {
	return "pricing_settings"
}

// PricingSettingID 单行表的固定主键
const PricingSettingID int64 = 1

// DefaultFor 返回指定类别的系统默认值（表行缺失时用兜底值）
func (s *PricingSetting) DefaultFor(category PriceCategory) float64 {
	if s == nil {
		return FallbackFor(category)
	}
	switch category {
	case CategoryProduct:
		return s.ProductMarginPct
	case CategoryShipping:
		return s.ShippingMarginPct
	case CategorySample:
		return s.SampleMarginPct
	case CategoryAccessory:
		return s.AccessoryMarginPct
	case CategoryClothing:
		return s.ClothingFlatFee
	}
	return FallbackFor(category)
}

// FallbackFor 返回指定类别的兜底值
func FallbackFor(category PriceCategory) float64 {
	switch category {
	case CategoryProduct:
		return FallbackProductMarginPct
	case CategoryShipping:
		return FallbackShippingMarginPct
	case CategorySample:
		return FallbackSampleMarginPct
	case CategoryAccessory:
		return FallbackAccessoryMarginPct
	case CategoryClothing:
		return FallbackClothingFlatFee
	}
	return 0
}

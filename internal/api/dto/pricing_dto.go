package dto

// ==================== 系统定价默认值 ====================

// PricingSettingReq 系统默认值更新请求
type PricingSettingReq struct {
	ProductMarginPct   float64 `json:"product_margin_pct" binding:"min=0,max=500"`
	ShippingMarginPct  float64 `json:"shipping_margin_pct" binding:"min=0,max=500"`
	SampleMarginPct    float64 `json:"sample_margin_pct" binding:"min=0,max=500"`
	AccessoryMarginPct float64 `json:"accessory_margin_pct" binding:"min=0,max=500"`
	ClothingFlatFee    float64 `json:"clothing_flat_fee" binding:"min=0"`
}

// PricingSettingResp 系统默认值响应
// configured = false 表示配置行还没建，返回的是兜底值
type PricingSettingResp struct {
	Configured         bool    `json:"configured"`
	ProductMarginPct   float64 `json:"product_margin_pct"`
	ShippingMarginPct  float64 `json:"shipping_margin_pct"`
	SampleMarginPct    float64 `json:"sample_margin_pct"`
	AccessoryMarginPct float64 `json:"accessory_margin_pct"`
	ClothingFlatFee    float64 `json:"clothing_flat_fee"`
}

// ==================== 解析结果 ====================

// ResolutionResp 某类别的生效值 + 来源层（item/order/client/system）
type ResolutionResp struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

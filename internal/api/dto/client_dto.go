package dto

// ==================== 客户 ====================

// CreateClientReq 创建客户请求
type CreateClientReq struct {
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Country      string `json:"country"`
}

// ClientPricingReq 客户级定价覆盖编辑请求（null = 清除，回到系统默认）
type ClientPricingReq struct {
	ProductMarginPct  *float64 `json:"product_margin_pct"`
	ShippingMarginPct *float64 `json:"shipping_margin_pct"`
	SampleMarginPct   *float64 `json:"sample_margin_pct"`
}

// ClientPricingResp 客户级定价覆盖响应
type ClientPricingResp struct {
	ClientID          int64    `json:"client_id"`
	Name              string   `json:"name"`
	ProductMarginPct  *float64 `json:"product_margin_pct"`
	ShippingMarginPct *float64 `json:"shipping_margin_pct"`
	SampleMarginPct   *float64 `json:"sample_margin_pct"`
}

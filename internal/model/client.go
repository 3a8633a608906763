package model

// ==================== Client 客户 ====================

// Client 客户（下单方）
// 三个利润率字段都可空：空 = 继承系统默认值
// 注意：客户层没有服装固定加价、也没有辅料利润率的覆盖字段（历史遗留的不对称，勿擅自补齐）
type Client struct {
	BaseModel
	Name         string `gorm:"size:255;not null"`
	ContactName  string `gorm:"size:255"`
	ContactEmail string `gorm:"size:255;index"`
	Country      string `gorm:"size:64"`

	// --- 客户级定价覆盖（可空 = 继承系统默认） ---
	ProductMarginPct  *float64 // 产品利润率 %
	ShippingMarginPct *float64 // 运费利润率 %
	SampleMarginPct   *float64 // 样品费利润率 %
}

func (Client) TableName() string {
	return "clients"
}

// OverrideFor 返回客户层对指定类别的覆盖值（没有该层的类别返回 nil）
func (c *Client) OverrideFor(category PriceCategory) *float64 {
	if c == nil {
		return nil
	}
	switch category {
	case CategoryProduct:
		return c.ProductMarginPct
	case CategoryShipping:
		return c.ShippingMarginPct
	case CategorySample:
		return c.SampleMarginPct
	}
	// clothing / accessory 在客户层没有覆盖字段
	return nil
}

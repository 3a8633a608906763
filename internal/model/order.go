package model

// ==================== 订单状态常量 ====================

// 订单状态只是展示用字符串，状态流转由外部工作流系统负责，这里不做迁移校验
const (
	OrderStatusDraft      = "draft"      // 草稿
	OrderStatusQuoting    = "quoting"    // 工厂报价中
	OrderStatusConfirmed  = "confirmed"  // 客户已确认
	OrderStatusProduction = "production" // 生产中
	OrderStatusShipped    = "shipped"    // 已发货
	OrderStatusClosed     = "closed"     // 已完结
)

// ==================== Order 订单主表 ====================

// Order 加工订单
type Order struct {
	BaseModel
	OrderNo        string        `gorm:"size:64;uniqueIndex;not null"` // 订单号
	ClientID       int64         `gorm:"index;not null"`
	Client         *Client       `gorm:"foreignKey:ClientID"`
	ManufacturerID *int64        `gorm:"index"` // 报价前可能还没定工厂
	Manufacturer   *Manufacturer `gorm:"foreignKey:ManufacturerID"`

	Status string `gorm:"size:32;index;default:draft"`
	Remark string `gorm:"type:text"`

	Items []LineItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// ==================== OrderMargin 订单级利润率覆盖 ====================

// OrderMargin 订单级利润率覆盖（每订单最多一行）
// 第一次在订单页改利润率时懒创建（upsert），之后只更新、从不删除
// 只有产品和运费两个字段：样品费和服装加价没有订单层覆盖
type OrderMargin struct {
	BaseModel
	OrderID           int64    `gorm:"uniqueIndex;not null"`
	ProductMarginPct  *float64 // 可空 = 继承客户层/系统层
	ShippingMarginPct *float64
}

func (OrderMargin) TableName() string {
	return "order_margins"
}

// OverrideFor 返回订单层对指定类别的覆盖值（没有该层的类别返回 nil）
func (m *OrderMargin) OverrideFor(category PriceCategory) *float64 {
	if m == nil {
		return nil
	}
	switch category {
	case CategoryProduct:
		return m.ProductMarginPct
	case CategoryShipping:
		return m.ShippingMarginPct
	}
	return nil
}

package dto

// ==================== 订单创建 / 列表 ====================

// CreateOrderReq 创建订单请求
type CreateOrderReq struct {
	OrderNo        string              `json:"order_no" binding:"required"`
	ClientID       int64               `json:"client_id" binding:"required"`
	ManufacturerID *int64              `json:"manufacturer_id"`
	Remark         string              `json:"remark"`
	Items          []CreateLineItemReq `json:"items" binding:"dive"`
}

// CreateLineItemReq 创建产品行请求
type CreateLineItemReq struct {
	ProductName string `json:"product_name" binding:"required"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity" binding:"min=0"`
	IsClothing  bool   `json:"is_clothing"`
}

// ListOrdersReq 订单列表请求
type ListOrdersReq struct {
	ClientID       int64  `form:"client_id"`
	ManufacturerID int64  `form:"manufacturer_id"`
	Status         string `form:"status"`
	Page           int    `form:"page,default=1"`
	PageSize       int    `form:"page_size,default=20"`
}

// ==================== 工厂报价 ====================

// ManufacturerCostReq 工厂成本提交请求（金额一律非负）
type ManufacturerCostReq struct {
	Cost             float64 `json:"cost" binding:"min=0"`
	ShippingAirCost  float64 `json:"shipping_air_cost" binding:"min=0"`
	ShippingBoatCost float64 `json:"shipping_boat_cost" binding:"min=0"`
	SampleFee        float64 `json:"sample_fee" binding:"min=0"`
}

// ==================== 利润率编辑 ====================

// OrderMarginReq 订单级利润率编辑请求（null = 清除覆盖，回到继承）
type OrderMarginReq struct {
	ProductMarginPct  *float64 `json:"product_margin_pct"`
	ShippingMarginPct *float64 `json:"shipping_margin_pct"`
}

// ItemOverrideReq 产品级覆盖编辑请求
// category: product / shipping / clothing；value 为 null = 清除覆盖
type ItemOverrideReq struct {
	Category string   `json:"category" binding:"required,oneof=product shipping clothing"`
	Value    *float64 `json:"value"`
}

// ==================== 运费合并 ====================

// ShippingLinkReq 运费合并请求
// covered_ids 为空数组 = 解绑（单向操作：被覆盖行的运费不会自动恢复）
type ShippingLinkReq struct {
	CoveredIDs []int64 `json:"covered_ids"`
}

// ==================== 定价详情 ====================

// OrderPricingResp 订单定价详情
type OrderPricingResp struct {
	OrderID   int64             `json:"order_id"`
	OrderNo   string            `json:"order_no"`
	Accessory ResolutionResp    `json:"accessory"` // 辅料率订单内统一，放订单级
	Items     []ItemPricingResp `json:"items"`
}

// ItemPricingResp 单行定价详情
type ItemPricingResp struct {
	ItemID                  int64          `json:"item_id"`
	ProductName             string         `json:"product_name"`
	IsClothing              bool           `json:"is_clothing"`
	ManufacturerCost        float64        `json:"manufacturer_cost"`
	ClientProductPrice      float64        `json:"client_product_price"`
	ClientShippingAirPrice  float64        `json:"client_shipping_air_price"`
	ClientShippingBoatPrice float64        `json:"client_shipping_boat_price"`
	ClientSampleFee         float64        `json:"client_sample_fee"`
	Product                 ResolutionResp `json:"product"`
	Shipping                ResolutionResp `json:"shipping"`
	Sample                  ResolutionResp `json:"sample"`
	ShippingLinkNote        string         `json:"shipping_link_note,omitempty"`
	ShippingLinkedItemIDs   []int64        `json:"shipping_linked_item_ids,omitempty"`
}

// UpdatedCountResp 批量写入结果
type UpdatedCountResp struct {
	Updated int `json:"updated"`
}

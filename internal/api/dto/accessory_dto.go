package dto

// ==================== 辅料库存 ====================

// CreateAccessoryReq 创建辅料请求
type CreateAccessoryReq struct {
	ClientID             int64   `json:"client_id" binding:"required"`
	ManufacturerID       *int64  `json:"manufacturer_id"`
	Name                 string  `json:"name" binding:"required"`
	Unit                 string  `json:"unit"`
	Quantity             int     `json:"quantity" binding:"min=0"`
	ManufacturerUnitCost float64 `json:"manufacturer_unit_cost" binding:"min=0"`
}

// AccessoryCostReq 辅料工厂单价更新请求
type AccessoryCostReq struct {
	ManufacturerUnitCost float64 `json:"manufacturer_unit_cost" binding:"min=0"`
}

// ListAccessoriesReq 辅料列表请求
type ListAccessoriesReq struct {
	ClientID       int64 `form:"client_id" binding:"required"`
	ManufacturerID int64 `form:"manufacturer_id"`
}

package model

// ==================== AccessoryInventory 辅料库存 ====================

// AccessoryInventory 辅料库存记录（吊牌、包装袋、织唛等）
// 按客户维护，可选绑定工厂；批量重算的 accessories 类别改的是这张表而不是订单产品行
type AccessoryInventory struct {
	BaseModel
	ClientID       int64         `gorm:"index;not null"`
	Client         *Client       `gorm:"foreignKey:ClientID"`
	ManufacturerID *int64        `gorm:"index"` // 可空：通用辅料不绑定工厂
	Manufacturer   *Manufacturer `gorm:"foreignKey:ManufacturerID"`

	Name     string `gorm:"size:255;not null"`
	Unit     string `gorm:"size:32"` // 个/套/米
	Quantity int    `gorm:"default:0"`

	ManufacturerUnitCost float64 `gorm:"default:0"` // 工厂单价
	ClientUnitCost       float64 `gorm:"default:0"` // 客户单价（引擎计算结果）
}

func (AccessoryInventory) TableName() string {
	return "accessory_inventories"
}

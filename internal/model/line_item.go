package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// ==================== LineItem 订单产品行 ====================

// LineItem 订单里的一个产品行
// 工厂侧字段由工厂报价写入，客户侧价格全部由定价引擎推导
// 覆盖字段的"空/非空"本身就是"是否自定义"的标记，不另外存布尔位
type LineItem struct {
	BaseModel
	OrderID     int64  `gorm:"index;not null"`
	ProductName string `gorm:"size:255;not null"`
	SKU         string `gorm:"size:100;index"`
	Quantity    int    `gorm:"default:0"`
	IsClothing  bool   `gorm:"default:false"` // 服装类走固定加价，不走百分比

	// --- 工厂侧成本（工厂报价单写入） ---
	ManufacturerCost             float64 `gorm:"default:0"` // 产品单件成本
	ManufacturerShippingAirCost  float64 `gorm:"default:0"` // 空运成本
	ManufacturerShippingBoatCost float64 `gorm:"default:0"` // 海运成本
	SampleFee                    float64 `gorm:"default:0"` // 工厂样品费（0 = 无样品）

	// --- 产品级定价覆盖（可空 = 继承订单层/客户层/系统层） ---
	ProductMarginOverride  *float64 // 产品利润率 %
	ShippingMarginOverride *float64 // 运费利润率 %
	ClothingFeeOverride    *float64 // 服装固定加价（金额）

	// --- 客户侧价格（引擎计算结果，保留两位小数） ---
	ClientProductPrice      float64 `gorm:"default:0"`
	ClientShippingAirPrice  float64 `gorm:"default:0"`
	ClientShippingBoatPrice float64 `gorm:"default:0"`
	ClientSampleFee         float64 `gorm:"default:0"`

	// --- 运费合并 ---
	// 本行作为主承担行时，记录被它覆盖的兄弟行 ID 列表（JSON 数组）
	ShippingLinkedItemIDs datatypes.JSON `gorm:"type:jsonb"`
	// 合并/被合并说明（给运营看的备注）
	ShippingLinkNote string `gorm:"size:512"`
	// 合并前各被覆盖行的运费快照，解绑是单向操作，留快照做人工恢复依据
	ShippingLinkSnapshot datatypes.JSON `gorm:"type:jsonb"`
}

func (LineItem) TableName() string {
	return "line_items"
}

// OverrideFor 返回产品层对指定类别的覆盖值（没有该层的类别返回 nil）
func (it *LineItem) OverrideFor(category PriceCategory) *float64 {
	if it == nil {
		return nil
	}
	switch category {
	case CategoryProduct:
		return it.ProductMarginOverride
	case CategoryShipping:
		return it.ShippingMarginOverride
	case CategoryClothing:
		return it.ClothingFeeOverride
	}
	// sample / accessory 在产品层没有覆盖字段
	return nil
}

// LinkedItemIDs 解码运费合并的被覆盖行 ID 列表
func (it *LineItem) LinkedItemIDs() []int64 {
	if len(it.ShippingLinkedItemIDs) == 0 {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(it.ShippingLinkedItemIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// SetLinkedItemIDs 写入运费合并的被覆盖行 ID 列表（nil/空 = 清除）
func (it *LineItem) SetLinkedItemIDs(ids []int64) {
	if len(ids) == 0 {
		it.ShippingLinkedItemIDs = nil
		return
	}
	raw, _ := json.Marshal(ids)
	it.ShippingLinkedItemIDs = raw
}

// ShippingCostSnapshot 运费合并前的成本快照（按被覆盖行 ID 索引）
type ShippingCostSnapshot struct {
	AirCost   float64 `json:"air_cost"`
	BoatCost  float64 `json:"boat_cost"`
	AirPrice  float64 `json:"air_price"`
	BoatPrice float64 `json:"boat_price"`
}

package dto

// ==================== 批量重算 ====================

// RecalcReq 批量重算请求
// 五个布尔开关选类别；每个类别可以带一个本次生效的自定义值（字符串，
// 沿用重算面板的文本框语义：留空/非数字/0/超限 = 用系统默认值）
type RecalcReq struct {
	RegularProducts  bool `json:"regular_products"`
	ClothingProducts bool `json:"clothing_products"`
	Samples          bool `json:"samples"`
	Shipping         bool `json:"shipping"`
	Accessories      bool `json:"accessories"`

	ProductRate   string `json:"product_rate"`
	ClothingFee   string `json:"clothing_fee"`
	SampleRate    string `json:"sample_rate"`
	ShippingRate  string `json:"shipping_rate"`
	AccessoryRate string `json:"accessory_rate"`
}

package model

// ==================== Manufacturer 工厂 ====================

// Manufacturer 工厂（报价方）
type Manufacturer struct {
	BaseModel
	Name         string `gorm:"size:255;not null"`
	ContactName  string `gorm:"size:255"`
	ContactPhone string `gorm:"size:64"`
	City         string `gorm:"size:128"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}

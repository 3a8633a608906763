package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 全部定价相关表共用的基础字段
// 软删除：订单和覆盖行只隐藏不物理删，方便追价格历史
type BaseModel struct {
	ID        int64          `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// PricingSettingRepository 系统定价默认值仓储接口
// 单行表：读不到行不算错误，返回 nil 让解析链走兜底值
type PricingSettingRepository interface {
	Get(ctx context.Context) (*model.PricingSetting, error)
	Save(ctx context.Context, setting *model.PricingSetting) error
}

// ==================== 仓储实现 ====================

type pricingSettingRepo struct {
	db *gorm.DB
}

// NewPricingSettingRepository 创建系统定价默认值仓储
func NewPricingSettingRepository(db *gorm.DB) PricingSettingRepository {
	return &pricingSettingRepo{db: db}
}

func (r *pricingSettingRepo) Get(ctx context.Context) (*model.PricingSetting, error) {
	var setting model.PricingSetting
	err := r.db.WithContext(ctx).First(&setting, model.PricingSettingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 行缺失按"未配置"处理，不往上抛错误
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *pricingSettingRepo) Save(ctx context.Context, setting *model.PricingSetting) error {
	setting.ID = model.PricingSettingID
	return r.db.WithContext(ctx).Save(setting).Error
}

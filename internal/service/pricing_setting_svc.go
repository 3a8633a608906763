package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
	"mfg_erp_v1_202608/pkg/utils"
)

// ==================== PricingSettingService 系统定价默认值 ====================

const (
	settingCacheKey = "pricing:defaults"
	settingCacheTTL = 5 * time.Minute
)

// PricingSettingService 系统定价默认值服务
// 默认值每次解析都要读，走 TTL 缓存；更新后立即失效
type PricingSettingService struct {
	repo  repository.PricingSettingRepository
	cache *utils.TTLCache
}

// NewPricingSettingService 创建系统定价默认值服务
func NewPricingSettingService(repo repository.PricingSettingRepository, cache *utils.TTLCache) *PricingSettingService {
	return &PricingSettingService{repo: repo, cache: cache}
}

// Current 返回当前系统默认值
// 表行缺失返回 nil（解析链会落兜底常量），查询出错也只降级为 nil 并记日志，
// 定价解析按约定永远不失败
func (s *PricingSettingService) Current(ctx context.Context) *model.PricingSetting {
	if cached, ok := s.cache.Get(settingCacheKey); ok {
		if setting, ok := cached.(*model.PricingSetting); ok {
			return setting
		}
	}

	setting, err := s.repo.Get(ctx)
	if err != nil {
		logrus.WithError(err).Warn("读取系统定价默认值失败，本次使用兜底值")
		return nil
	}

	s.cache.Set(settingCacheKey, setting, settingCacheTTL)
	return setting
}

// Update 更新系统默认值（逐字段校验，全部合法才落库）
func (s *PricingSettingService) Update(ctx context.Context, setting *model.PricingSetting) error {
	for _, rate := range []float64{
		setting.ProductMarginPct,
		setting.ShippingMarginPct,
		setting.SampleMarginPct,
		setting.AccessoryMarginPct,
	} {
		if err := ValidateRate(rate); err != nil {
			return err
		}
	}
	if err := ValidateFee(setting.ClothingFlatFee); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return err
	}
	s.cache.Delete(settingCacheKey)
	return nil
}

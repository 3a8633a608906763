package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
)

// ==================== AccessoryService 辅料库存 ====================

// AccessoryService 辅料库存维护
// 辅料只有系统层一个定价层（客户层覆盖历史上没建，保持现状）
type AccessoryService struct {
	repo       repository.AccessoryRepository
	settingSvc *PricingSettingService
}

// NewAccessoryService 创建辅料库存服务
func NewAccessoryService(repo repository.AccessoryRepository, settingSvc *PricingSettingService) *AccessoryService {
	return &AccessoryService{repo: repo, settingSvc: settingSvc}
}

// Create 新建辅料，按当前辅料率立即算出客户单价
func (s *AccessoryService) Create(ctx context.Context, accessory *model.AccessoryInventory) error {
	if accessory.Name == "" {
		return errors.New("辅料名称不能为空")
	}
	if accessory.ClientID <= 0 {
		return errors.New("必须指定客户")
	}
	if err := ValidateFee(accessory.ManufacturerUnitCost); err != nil {
		return err
	}

	if accessory.ManufacturerUnitCost > 0 {
		rate := s.settingSvc.Current(ctx).DefaultFor(model.CategoryAccessory)
		unitCost, err := ClientPrice(accessory.ManufacturerUnitCost, rate, model.CategoryAccessory)
		if err != nil {
			return err
		}
		accessory.ClientUnitCost = unitCost
	}
	return s.repo.Create(ctx, accessory)
}

// ListByClient 按客户（可选按工厂）查辅料
func (s *AccessoryService) ListByClient(ctx context.Context, clientID, manufacturerID int64) ([]model.AccessoryInventory, error) {
	return s.repo.ListByClient(ctx, clientID, manufacturerID)
}

// UpdateManufacturerCost 更新工厂单价并重算客户单价
func (s *AccessoryService) UpdateManufacturerCost(ctx context.Context, id int64, unitCost float64) error {
	if err := ValidateFee(unitCost); err != nil {
		return err
	}

	accessory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("辅料不存在")
		}
		return err
	}

	fields := map[string]interface{}{
		"manufacturer_unit_cost": unitCost,
	}
	if unitCost > 0 {
		rate := s.settingSvc.Current(ctx).DefaultFor(model.CategoryAccessory)
		clientCost, err := ClientPrice(unitCost, rate, model.CategoryAccessory)
		if err != nil {
			return err
		}
		fields["client_unit_cost"] = clientCost
	}
	return s.repo.UpdateFields(ctx, accessory.ID, fields)
}

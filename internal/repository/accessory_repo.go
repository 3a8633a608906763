package repository

import (
	"context"

	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// AccessoryRepository 辅料库存仓储接口
type AccessoryRepository interface {
	Create(ctx context.Context, accessory *model.AccessoryInventory) error
	GetByID(ctx context.Context, id int64) (*model.AccessoryInventory, error)
	// ListByClient 按客户查辅料；manufacturerID > 0 时额外按工厂过滤
	ListByClient(ctx context.Context, clientID int64, manufacturerID int64) ([]model.AccessoryInventory, error)
	Update(ctx context.Context, accessory *model.AccessoryInventory) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// ==================== 仓储实现 ====================

type accessoryRepo struct {
	db *gorm.DB
}

// NewAccessoryRepository 创建辅料库存仓储
func NewAccessoryRepository(db *gorm.DB) AccessoryRepository {
	return &accessoryRepo{db: db}
}

func (r *accessoryRepo) Create(ctx context.Context, accessory *model.AccessoryInventory) error {
	return r.db.WithContext(ctx).Create(accessory).Error
}

func (r *accessoryRepo) GetByID(ctx context.Context, id int64) (*model.AccessoryInventory, error) {
	var accessory model.AccessoryInventory
	if err := r.db.WithContext(ctx).First(&accessory, id).Error; err != nil {
		return nil, err
	}
	return &accessory, nil
}

func (r *accessoryRepo) ListByClient(ctx context.Context, clientID int64, manufacturerID int64) ([]model.AccessoryInventory, error) {
	var accessories []model.AccessoryInventory
	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	if manufacturerID > 0 {
		query = query.Where("manufacturer_id = ?", manufacturerID)
	}
	err := query.Order("id ASC").Find(&accessories).Error
	return accessories, err
}

func (r *accessoryRepo) Update(ctx context.Context, accessory *model.AccessoryInventory) error {
	return r.db.WithContext(ctx).Save(accessory).Error
}

func (r *accessoryRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.AccessoryInventory{}).
		Where("id = ?", id).
		Updates(fields).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ClientRepository 客户仓储接口
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	Update(ctx context.Context, client *model.Client) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, page, pageSize int) ([]model.Client, int64, error)
}

// ==================== 仓储实现 ====================

type clientRepo struct {
	db *gorm.DB
}

// NewClientRepository 创建客户仓储
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *clientRepo) List(ctx context.Context, page, pageSize int) ([]model.Client, int64, error) {
	var (
		clients []model.Client
		total   int64
	)
	query := r.db.WithContext(ctx).Model(&model.Client{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := query.Order("id DESC").Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

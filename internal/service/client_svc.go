package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
)

// ==================== ClientService 客户定价覆盖 ====================

// ClientService 客户维护 + 客户级定价覆盖
type ClientService struct {
	repo repository.ClientRepository
}

// NewClientService 创建客户服务
func NewClientService(repo repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// Create 新建客户
func (s *ClientService) Create(ctx context.Context, client *model.Client) error {
	if client.Name == "" {
		return errors.New("客户名称不能为空")
	}
	return s.repo.Create(ctx, client)
}

// Get 客户详情
func (s *ClientService) Get(ctx context.Context, id int64) (*model.Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("客户不存在")
		}
		return nil, err
	}
	return client, nil
}

// List 客户列表
func (s *ClientService) List(ctx context.Context, page, pageSize int) ([]model.Client, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

// UpdatePricing 更新客户级定价覆盖
// 传 nil 即清除该类别的客户层覆盖，回到继承系统默认
func (s *ClientService) UpdatePricing(ctx context.Context, id int64, productPct, shippingPct, samplePct *float64) error {
	for _, pct := range []*float64{productPct, shippingPct, samplePct} {
		if pct != nil {
			if err := ValidateRate(*pct); err != nil {
				return err
			}
		}
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	return s.repo.UpdateFields(ctx, id, map[string]interface{}{
		"product_margin_pct":  productPct,
		"shipping_margin_pct": shippingPct,
		"sample_margin_pct":   samplePct,
	})
}

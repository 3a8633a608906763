package repository

import (
	"context"

	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// LineItemRepository 订单产品行仓储接口
// 批量重算按行循环调用 UpdateFields，一行一次网络往返，失败跳过不回滚
type LineItemRepository interface {
	Create(ctx context.Context, item *model.LineItem) error
	GetByID(ctx context.Context, id int64) (*model.LineItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.LineItem, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.LineItem, error)
	Update(ctx context.Context, item *model.LineItem) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	// FindCoveringPrimary 查找已把 itemID 纳入运费合并的主承担行（不存在返回 nil）
	FindCoveringPrimary(ctx context.Context, orderID, itemID int64) (*model.LineItem, error)
}

// ==================== 仓储实现 ====================

type lineItemRepo struct {
	db *gorm.DB
}

// NewLineItemRepository 创建订单产品行仓储
func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &lineItemRepo{db: db}
}

func (r *lineItemRepo) Create(ctx context.Context, item *model.LineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *lineItemRepo) GetByID(ctx context.Context, id int64) (*model.LineItem, error) {
	var item model.LineItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *lineItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.LineItem, error) {
	var items []model.LineItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.LineItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.LineItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepo) Update(ctx context.Context, item *model.LineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *lineItemRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.LineItem{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *lineItemRepo) FindCoveringPrimary(ctx context.Context, orderID, itemID int64) (*model.LineItem, error) {
	// 合并关系存在主承担行的 JSON 列里，订单内行数很少，拉回来在内存里判断即可
	items, err := r.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			continue
		}
		for _, linked := range items[i].LinkedItemIDs() {
			if linked == itemID {
				return &items[i], nil
			}
		}
	}
	return nil, nil
}

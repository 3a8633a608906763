package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mfg_erp_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// OrderRepository 订单仓储接口
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByIDWithItems(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// OrderMarginRepository 订单级利润率覆盖仓储接口
type OrderMarginRepository interface {
	GetByOrderID(ctx context.Context, orderID int64) (*model.OrderMargin, error)
	// Upsert 懒创建：第一次订单级编辑时插入，之后按 order_id 冲突更新
	Upsert(ctx context.Context, margin *model.OrderMargin) error
}

// ==================== 过滤条件 ====================

// OrderFilter 订单过滤条件
type OrderFilter struct {
	ClientID       int64
	ManufacturerID int64
	Status         string
	Page           int
	PageSize       int
}

// ==================== 订单仓储实现 ====================

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) GetByIDWithItems(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var (
		orders []model.Order
		total  int64
	)
	query := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.ClientID > 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.ManufacturerID > 0 {
		query = query.Where("manufacturer_id = ?", filter.ManufacturerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// ==================== 订单利润率仓储实现 ====================

type orderMarginRepo struct {
	db *gorm.DB
}

// NewOrderMarginRepository 创建订单级利润率覆盖仓储
func NewOrderMarginRepository(db *gorm.DB) OrderMarginRepository {
	return &orderMarginRepo{db: db}
}

func (r *orderMarginRepo) GetByOrderID(ctx context.Context, orderID int64) (*model.OrderMargin, error) {
	var margin model.OrderMargin
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&margin).Error
	if err != nil {
		return nil, err
	}
	return &margin, nil
}

func (r *orderMarginRepo) Upsert(ctx context.Context, margin *model.OrderMargin) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"product_margin_pct", "shipping_margin_pct", "updated_at"}),
		}).
		Create(margin).Error
}

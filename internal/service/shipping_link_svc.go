package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
	"mfg_erp_v1_202608/pkg/notify"
)

// ==================== ShippingLinkService 运费合并 ====================

// ShippingLinkService 运费合并：一行的运费覆盖若干兄弟行
// 被覆盖行自己的运费成本和客户运费价会被清零；解绑是单向操作，
// 不会自动恢复被清零的值（合并前的值留在主承担行的快照里，恢复只能人工录入）
type ShippingLinkService struct {
	itemRepo repository.LineItemRepository
	notifier notify.Notifier
}

// NewShippingLinkService 创建运费合并服务
func NewShippingLinkService(itemRepo repository.LineItemRepository, notifier notify.Notifier) *ShippingLinkService {
	return &ShippingLinkService{itemRepo: itemRepo, notifier: notifier}
}

// Link 建立（或重设）运费合并关系
//
//	coveredIDs 为空 = 解绑：清掉主承担行的列表和备注，被覆盖行保持清零状态
//	同样参数重复调用结果一致
//
// 校验（写任何数据之前全部做完）：
//   - 主承担行必须存在
//   - 不允许把自己列为被覆盖行
//   - 被覆盖行必须与主承担行同订单
//   - 一行最多被一个主承担行覆盖
func (s *ShippingLinkService) Link(ctx context.Context, primaryID int64, coveredIDs []int64) error {
	primary, err := s.itemRepo.GetByID(ctx, primaryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("主承担行不存在")
		}
		return err
	}

	if len(coveredIDs) == 0 {
		return s.unlink(ctx, primary)
	}

	// 去重 + 排序，保证重复调用写入同样的内容
	coveredIDs = dedupeIDs(coveredIDs)

	for _, id := range coveredIDs {
		if id == primaryID {
			return errors.New("不能把主承担行自己列为被覆盖行")
		}
	}

	covered, err := s.itemRepo.ListByIDs(ctx, coveredIDs)
	if err != nil {
		return err
	}
	if len(covered) != len(coveredIDs) {
		return errors.New("部分被覆盖行不存在")
	}
	for i := range covered {
		if covered[i].OrderID != primary.OrderID {
			return fmt.Errorf("行 #%d 不属于同一订单", covered[i].ID)
		}
	}
	for _, id := range coveredIDs {
		other, err := s.itemRepo.FindCoveringPrimary(ctx, primary.OrderID, id)
		if err != nil {
			return err
		}
		if other != nil && other.ID != primaryID {
			return fmt.Errorf("行 #%d 已被行 #%d 合并，先解绑再重新合并", id, other.ID)
		}
	}

	// 合并前快照：只给本次新纳入的行拍，已覆盖的行保留旧快照
	// （它们的运费已经是 0，重拍会把有用的快照冲掉）
	snapshot := s.mergeSnapshot(primary, covered)
	snapshotRaw, _ := json.Marshal(snapshot)

	primary.SetLinkedItemIDs(coveredIDs)
	note := fmt.Sprintf("本行运费合并承担 %d 个兄弟行: %v", len(coveredIDs), coveredIDs)
	if err := s.itemRepo.UpdateFields(ctx, primary.ID, map[string]interface{}{
		"shipping_linked_item_ids": primary.ShippingLinkedItemIDs,
		"shipping_link_note":       note,
		"shipping_link_snapshot":   snapshotRaw,
	}); err != nil {
		return err
	}

	// 被覆盖行清零：工厂侧运费成本 + 客户侧运费价都归零
	// 主承担行自己的运费字段不动，也不把被覆盖行的成本加进来（避免重复计价）
	for i := range covered {
		coveredNote := fmt.Sprintf("运费由行 #%d 合并承担", primary.ID)
		if err := s.itemRepo.UpdateFields(ctx, covered[i].ID, map[string]interface{}{
			"manufacturer_shipping_air_cost":  0,
			"manufacturer_shipping_boat_cost": 0,
			"client_shipping_air_price":       0,
			"client_shipping_boat_price":      0,
			"shipping_link_note":              coveredNote,
		}); err != nil {
			return err
		}
	}

	s.notifier.Publish(ctx, notify.EventShippingLinked, map[string]interface{}{
		"order_id":    primary.OrderID,
		"primary_id":  primary.ID,
		"covered_ids": coveredIDs,
	})
	return nil
}

// unlink 解除合并关系
// 只清主承担行的列表和备注；被覆盖行不恢复（快照保留，恢复需人工重录成本）
func (s *ShippingLinkService) unlink(ctx context.Context, primary *model.LineItem) error {
	previously := primary.LinkedItemIDs()
	if len(previously) == 0 {
		// 本来就没有合并关系，幂等返回
		return nil
	}

	if err := s.itemRepo.UpdateFields(ctx, primary.ID, map[string]interface{}{
		"shipping_linked_item_ids": nil,
		"shipping_link_note":       "",
	}); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"primary_id":  primary.ID,
		"covered_ids": previously,
	}).Warn("运费合并已解除，被覆盖行的运费不会自动恢复，需要人工重新录入")

	s.notifier.Publish(ctx, notify.EventShippingUnlinked, map[string]interface{}{
		"order_id":           primary.OrderID,
		"primary_id":         primary.ID,
		"previously_covered": previously,
		"auto_restored":      false,
		"snapshot_retained":  true,
	})
	return nil
}

// mergeSnapshot 合并新旧快照：老条目不动，新纳入的行拍当前值
func (s *ShippingLinkService) mergeSnapshot(primary *model.LineItem, covered []model.LineItem) map[string]model.ShippingCostSnapshot {
	snapshot := make(map[string]model.ShippingCostSnapshot)
	if len(primary.ShippingLinkSnapshot) > 0 {
		_ = json.Unmarshal(primary.ShippingLinkSnapshot, &snapshot)
	}

	existing := make(map[int64]bool)
	for _, id := range primary.LinkedItemIDs() {
		existing[id] = true
	}

	for i := range covered {
		if existing[covered[i].ID] {
			continue
		}
		key := fmt.Sprintf("%d", covered[i].ID)
		snapshot[key] = model.ShippingCostSnapshot{
			AirCost:   covered[i].ManufacturerShippingAirCost,
			BoatCost:  covered[i].ManufacturerShippingBoatCost,
			AirPrice:  covered[i].ClientShippingAirPrice,
			BoatPrice: covered[i].ClientShippingBoatPrice,
		}
	}
	return snapshot
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

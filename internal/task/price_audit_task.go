package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
	"mfg_erp_v1_202608/internal/service"
)

// PriceAuditTask 每晚核对一遍库里的客户价和解析链推导值是否一致
// 只读任务：发现漂移仅记日志，不回写，修复走重算接口由人工触发
type PriceAuditTask struct {
	OrderRepo repository.OrderRepository
	ItemRepo  repository.LineItemRepository
	MarginSvc *service.MarginService
	Cron      *cron.Cron

	pageSize int
}

func NewPriceAuditTask(
	orderRepo repository.OrderRepository,
	itemRepo repository.LineItemRepository,
	marginSvc *service.MarginService,
) *PriceAuditTask {
	return &PriceAuditTask{
		OrderRepo: orderRepo,
		ItemRepo:  itemRepo,
		MarginSvc: marginSvc,
		Cron:      cron.New(cron.WithSeconds()), // 支持秒级控制
		pageSize:  200,
	}
}

// Start 启动定时任务
func (t *PriceAuditTask) Start() {
	// 每天凌晨 3 点跑一次，避开白天的报价高峰
	_, err := t.Cron.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		t.auditJob(ctx)
	})
	if err != nil {
		logrus.Fatalf("无法启动价格核对定时任务: %v", err)
	}

	t.Cron.Start()
	logrus.Info("价格核对任务已启动 (每天凌晨3点)")
}

// auditJob 分页扫全部订单，逐行比对推导价和库内价
func (t *PriceAuditTask) auditJob(ctx context.Context) {
	var (
		page        = 1
		ordersTotal int
		drifted     int
	)

	logrus.Info("[Cron] 开始价格核对扫描")

	for {
		select {
		case <-ctx.Done():
			logrus.Warn("[Cron] 价格核对任务超时停止")
			return
		default:
		}

		orders, _, err := t.OrderRepo.List(ctx, repository.OrderFilter{Page: page, PageSize: t.pageSize})
		if err != nil {
			logrus.Errorf("[Cron] 订单分页查询失败 (page=%d): %v", page, err)
			return
		}
		if len(orders) == 0 {
			break
		}

		for i := range orders {
			drifted += t.auditOrder(ctx, &orders[i])
			ordersTotal++
		}
		page++
	}

	if drifted > 0 {
		logrus.Warnf("[Cron] 价格核对完成：扫描 %d 单，发现 %d 行价格漂移", ordersTotal, drifted)
	} else {
		logrus.Infof("[Cron] 价格核对完成：扫描 %d 单，无漂移", ordersTotal)
	}
}

// auditOrder 核对单个订单，返回漂移行数
func (t *PriceAuditTask) auditOrder(ctx context.Context, order *model.Order) int {
	items, err := t.ItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		logrus.Errorf("[Cron] 订单 [%d] 产品行查询失败: %v", order.ID, err)
		return 0
	}

	layers := t.MarginSvc.LayersForOrder(ctx, order)

	// 被运费合并覆盖的行，库内运费价就该是 0，不参与运费比对
	covered := make(map[int64]bool)
	for i := range items {
		for _, id := range items[i].LinkedItemIDs() {
			covered[id] = true
		}
	}

	drifted := 0
	for i := range items {
		item := &items[i]
		categories := []model.PriceCategory{model.CategoryProduct, model.CategorySample}
		if !covered[item.ID] {
			categories = append(categories, model.CategoryShipping)
		}

		expected, err := service.RepriceFields(item, layers, categories...)
		if err != nil {
			logrus.Errorf("[Cron] 订单 [%d] 行 [%d] 推导失败: %v", order.ID, item.ID, err)
			continue
		}

		stored := map[string]float64{
			"client_product_price":       item.ClientProductPrice,
			"client_shipping_air_price":  item.ClientShippingAirPrice,
			"client_shipping_boat_price": item.ClientShippingBoatPrice,
			"client_sample_fee":          item.ClientSampleFee,
		}
		for column, want := range expected {
			got := stored[column]
			if !centsEqual(got, want.(float64)) {
				drifted++
				logrus.WithFields(logrus.Fields{
					"order_id": order.ID,
					"item_id":  item.ID,
					"column":   column,
					"stored":   got,
					"derived":  want,
				}).Warn("[Cron] 发现价格漂移")
			}
		}
	}
	return drifted
}

// centsEqual 两位小数精度下相等
func centsEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.005
}

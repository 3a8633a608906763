package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
	"mfg_erp_v1_202608/internal/service"
)

type OrderController struct {
	orderSvc *service.OrderService
	linkSvc  *service.ShippingLinkService
}

func NewOrderController(orderSvc *service.OrderService, linkSvc *service.ShippingLinkService) *OrderController {
	return &OrderController{orderSvc: orderSvc, linkSvc: linkSvc}
}

// ==================== 订单 ====================

// CreateOrder 创建订单
// @Summary 创建订单
// @Tags Order (订单)
// @Accept json
// @Produce json
// @Param body body dto.CreateOrderReq true "订单信息"
// @Success 200 {object} map[string]int64 "订单ID"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/orders [post]
func (c *OrderController) CreateOrder(ctx *gin.Context) {
	var req dto.CreateOrderReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := &model.Order{
		OrderNo:        req.OrderNo,
		ClientID:       req.ClientID,
		ManufacturerID: req.ManufacturerID,
		Remark:         req.Remark,
		Status:         model.OrderStatusDraft,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, model.LineItem{
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			IsClothing:  item.IsClothing,
		})
	}

	if err := c.orderSvc.CreateOrder(ctx.Request.Context(), order); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": order.ID})
}

// GetOrder 订单详情
// @Summary 订单详情（含产品行）
// @Tags Order (订单)
// @Produce json
// @Param id path int true "订单ID"
// @Success 200 {object} model.Order "订单详情"
// @Failure 400 {object} map[string]string "ID格式错误"
// @Router /api/v1/orders/{id} [get]
func (c *OrderController) GetOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单ID"})
		return
	}

	order, err := c.orderSvc.GetOrder(ctx.Request.Context(), orderID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// ListOrders 订单列表
// @Summary 订单列表
// @Tags Order (订单)
// @Produce json
// @Param client_id query int false "客户ID"
// @Param status query string false "状态"
// @Success 200 {object} map[string]interface{} "订单列表"
// @Router /api/v1/orders [get]
func (c *OrderController) ListOrders(ctx *gin.Context) {
	var req dto.ListOrdersReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := c.orderSvc.ListOrders(ctx.Request.Context(), repository.OrderFilter{
		ClientID:       req.ClientID,
		ManufacturerID: req.ManufacturerID,
		Status:         req.Status,
		Page:           req.Page,
		PageSize:       req.PageSize,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"total": total, "list": orders})
}

// GetOrderPricing 订单定价详情
// @Summary 订单定价详情
// @Description 每行每类别的生效值和来源层（item/order/client/system）
// @Tags Order (订单)
// @Produce json
// @Param id path int true "订单ID"
// @Success 200 {object} dto.OrderPricingResp "定价详情"
// @Failure 400 {object} map[string]string "ID格式错误"
// @Router /api/v1/orders/{id}/pricing [get]
func (c *OrderController) GetOrderPricing(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单ID"})
		return
	}

	resp, err := c.orderSvc.GetOrderPricing(ctx.Request.Context(), orderID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateOrderMargin 编辑订单级利润率
// @Summary 编辑订单级利润率
// @Description 懒创建覆盖行；随后重算订单内所有未被产品级覆盖的行
// @Tags Order (订单)
// @Accept json
// @Produce json
// @Param id path int true "订单ID"
// @Param body body dto.OrderMarginReq true "利润率（null=清除覆盖）"
// @Success 200 {object} dto.UpdatedCountResp "重算行数"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/orders/{id}/margin [put]
func (c *OrderController) UpdateOrderMargin(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单ID"})
		return
	}
	var req dto.OrderMarginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := c.orderSvc.UpdateOrderMargin(ctx.Request.Context(), orderID, req.ProductMarginPct, req.ShippingMarginPct)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.UpdatedCountResp{Updated: updated})
}

// ==================== 产品行 ====================

// SubmitManufacturerCost 工厂提交成本
// @Summary 工厂提交成本
// @Description 写入成本并按当前解析链推导全部客户价
// @Tags LineItem (产品行)
// @Accept json
// @Produce json
// @Param id path int true "产品行ID"
// @Param body body dto.ManufacturerCostReq true "工厂成本"
// @Success 200 {object} map[string]string "提交成功"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/line-items/{id}/cost [put]
func (c *OrderController) SubmitManufacturerCost(ctx *gin.Context) {
	itemID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的产品行ID"})
		return
	}
	var req dto.ManufacturerCostReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.orderSvc.SubmitManufacturerCost(ctx.Request.Context(), itemID, req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "提交成功"})
}

// UpdateItemOverride 编辑产品级覆盖
// @Summary 编辑产品级覆盖
// @Description 设置或清除单行某类别的覆盖值（value=null 清除），只重算该行该类别
// @Tags LineItem (产品行)
// @Accept json
// @Produce json
// @Param id path int true "产品行ID"
// @Param body body dto.ItemOverrideReq true "覆盖值"
// @Success 200 {object} map[string]string "更新成功"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/line-items/{id}/override [put]
func (c *OrderController) UpdateItemOverride(ctx *gin.Context) {
	itemID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的产品行ID"})
		return
	}
	var req dto.ItemOverrideReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.orderSvc.UpdateItemOverride(ctx.Request.Context(), itemID, model.PriceCategory(req.Category), req.Value); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// UpdateShippingLink 运费合并 / 解绑
// @Summary 运费合并
// @Description covered_ids 为空数组 = 解绑；解绑不恢复被覆盖行的运费（单向操作）
// @Tags LineItem (产品行)
// @Accept json
// @Produce json
// @Param id path int true "主承担行ID"
// @Param body body dto.ShippingLinkReq true "被覆盖行ID列表"
// @Success 200 {object} map[string]string "设置成功"
// @Failure 400 {object} map[string]string "校验失败"
// @Router /api/v1/line-items/{id}/shipping-link [put]
func (c *OrderController) UpdateShippingLink(ctx *gin.Context) {
	primaryID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的产品行ID"})
		return
	}
	var req dto.ShippingLinkReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.linkSvc.Link(ctx.Request.Context(), primaryID, req.CoveredIDs); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "设置成功"})
}

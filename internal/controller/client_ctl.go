package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/service"
)

type ClientController struct {
	clientSvc *service.ClientService
}

func NewClientController(clientSvc *service.ClientService) *ClientController {
	return &ClientController{clientSvc: clientSvc}
}

// CreateClient 创建客户
// @Summary 创建客户
// @Tags Client (客户)
// @Accept json
// @Produce json
// @Param body body dto.CreateClientReq true "客户信息"
// @Success 200 {object} map[string]int64 "客户ID"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/clients [post]
func (c *ClientController) CreateClient(ctx *gin.Context) {
	var req dto.CreateClientReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &model.Client{
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Country:      req.Country,
	}
	if err := c.clientSvc.Create(ctx.Request.Context(), client); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": client.ID})
}

// GetClientPricing 查询客户级定价覆盖
// @Summary 查询客户级定价覆盖
// @Tags Client (客户)
// @Produce json
// @Param id path int true "客户ID"
// @Success 200 {object} dto.ClientPricingResp "客户定价覆盖"
// @Failure 400 {object} map[string]string "ID格式错误"
// @Router /api/v1/clients/{id}/pricing [get]
func (c *ClientController) GetClientPricing(ctx *gin.Context) {
	clientID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的客户ID"})
		return
	}

	client, err := c.clientSvc.Get(ctx.Request.Context(), clientID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.ClientPricingResp{
		ClientID:          client.ID,
		Name:              client.Name,
		ProductMarginPct:  client.ProductMarginPct,
		ShippingMarginPct: client.ShippingMarginPct,
		SampleMarginPct:   client.SampleMarginPct,
	})
}

// UpdateClientPricing 编辑客户级定价覆盖
// @Summary 编辑客户级定价覆盖
// @Description null = 清除该类别覆盖，回到系统默认；已有订单价格不自动重算
// @Tags Client (客户)
// @Accept json
// @Produce json
// @Param id path int true "客户ID"
// @Param body body dto.ClientPricingReq true "覆盖值"
// @Success 200 {object} map[string]string "更新成功"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/clients/{id}/pricing [put]
func (c *ClientController) UpdateClientPricing(ctx *gin.Context) {
	clientID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的客户ID"})
		return
	}
	var req dto.ClientPricingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.clientSvc.UpdatePricing(ctx.Request.Context(), clientID,
		req.ProductMarginPct, req.ShippingMarginPct, req.SampleMarginPct); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

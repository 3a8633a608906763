package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/service"
)

type RecalcController struct {
	recalcSvc *service.RecalcService
}

func NewRecalcController(recalcSvc *service.RecalcService) *RecalcController {
	return &RecalcController{recalcSvc: recalcSvc}
}

// Recalculate 批量重算
// @Summary 批量重算订单客户价
// @Description 按勾选的类别逐行重算；单行失败跳过，返回成功行数（部分成功不算错误）
// @Tags Recalc (批量重算)
// @Accept json
// @Produce json
// @Param id path int true "订单ID"
// @Param body body dto.RecalcReq true "类别开关与自定义值"
// @Success 200 {object} dto.UpdatedCountResp "成功更新的记录数"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "订单读取失败"
// @Router /api/v1/orders/{id}/recalculate [post]
func (c *RecalcController) Recalculate(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单ID"})
		return
	}
	var req dto.RecalcReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := c.recalcSvc.Recalculate(ctx.Request.Context(), orderID, req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.UpdatedCountResp{Updated: updated})
}

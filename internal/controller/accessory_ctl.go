package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/service"
)

type AccessoryController struct {
	accessorySvc *service.AccessoryService
}

func NewAccessoryController(accessorySvc *service.AccessoryService) *AccessoryController {
	return &AccessoryController{accessorySvc: accessorySvc}
}

// CreateAccessory 创建辅料
// @Summary 创建辅料库存记录
// @Tags Accessory (辅料库存)
// @Accept json
// @Produce json
// @Param body body dto.CreateAccessoryReq true "辅料信息"
// @Success 200 {object} map[string]int64 "辅料ID"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/accessories [post]
func (c *AccessoryController) CreateAccessory(ctx *gin.Context) {
	var req dto.CreateAccessoryReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessory := &model.AccessoryInventory{
		ClientID:             req.ClientID,
		ManufacturerID:       req.ManufacturerID,
		Name:                 req.Name,
		Unit:                 req.Unit,
		Quantity:             req.Quantity,
		ManufacturerUnitCost: req.ManufacturerUnitCost,
	}
	if err := c.accessorySvc.Create(ctx.Request.Context(), accessory); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": accessory.ID})
}

// ListAccessories 辅料列表
// @Summary 按客户查辅料库存
// @Tags Accessory (辅料库存)
// @Produce json
// @Param client_id query int true "客户ID"
// @Param manufacturer_id query int false "工厂ID"
// @Success 200 {object} map[string]interface{} "辅料列表"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/accessories [get]
func (c *AccessoryController) ListAccessories(ctx *gin.Context) {
	var req dto.ListAccessoriesReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := c.accessorySvc.ListByClient(ctx.Request.Context(), req.ClientID, req.ManufacturerID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"total": len(list), "list": list})
}

// UpdateAccessoryCost 更新辅料工厂单价
// @Summary 更新辅料工厂单价
// @Description 写入工厂单价并按当前辅料率重算客户单价
// @Tags Accessory (辅料库存)
// @Accept json
// @Produce json
// @Param id path int true "辅料ID"
// @Param body body dto.AccessoryCostReq true "工厂单价"
// @Success 200 {object} map[string]string "更新成功"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/accessories/{id}/cost [put]
func (c *AccessoryController) UpdateAccessoryCost(ctx *gin.Context) {
	accessoryID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的辅料ID"})
		return
	}
	var req dto.AccessoryCostReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.accessorySvc.UpdateManufacturerCost(ctx.Request.Context(), accessoryID, req.ManufacturerUnitCost); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

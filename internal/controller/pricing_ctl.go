package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mfg_erp_v1_202608/internal/api/dto"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/service"
)

type PricingController struct {
	settingSvc *service.PricingSettingService
}

func NewPricingController(settingSvc *service.PricingSettingService) *PricingController {
	return &PricingController{settingSvc: settingSvc}
}

// GetDefaults 查询系统定价默认值
// @Summary 查询系统定价默认值
// @Description 配置行缺失时返回兜底值，configured 字段标记是否已配置
// @Tags Pricing (定价配置)
// @Produce json
// @Success 200 {object} dto.PricingSettingResp "系统默认值"
// @Router /api/v1/pricing/defaults [get]
func (c *PricingController) GetDefaults(ctx *gin.Context) {
	setting := c.settingSvc.Current(ctx.Request.Context())

	resp := dto.PricingSettingResp{
		Configured:         setting != nil,
		ProductMarginPct:   setting.DefaultFor(model.CategoryProduct),
		ShippingMarginPct:  setting.DefaultFor(model.CategoryShipping),
		SampleMarginPct:    setting.DefaultFor(model.CategorySample),
		AccessoryMarginPct: setting.DefaultFor(model.CategoryAccessory),
		ClothingFlatFee:    setting.DefaultFor(model.CategoryClothing),
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateDefaults 更新系统定价默认值
// @Summary 更新系统定价默认值
// @Description 利润率区间 [0,500]，服装加价非负；校验失败不写任何数据
// @Tags Pricing (定价配置)
// @Accept json
// @Produce json
// @Param body body dto.PricingSettingReq true "系统默认值"
// @Success 200 {object} map[string]string "更新成功"
// @Failure 400 {object} map[string]string "参数校验失败"
// @Failure 500 {object} map[string]string "更新失败"
// @Router /api/v1/pricing/defaults [put]
func (c *PricingController) UpdateDefaults(ctx *gin.Context) {
	var req dto.PricingSettingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting := &model.PricingSetting{
		ProductMarginPct:   req.ProductMarginPct,
		ShippingMarginPct:  req.ShippingMarginPct,
		SampleMarginPct:    req.SampleMarginPct,
		AccessoryMarginPct: req.AccessoryMarginPct,
		ClothingFlatFee:    req.ClothingFlatFee,
	}
	if err := c.settingSvc.Update(ctx.Request.Context(), setting); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mfg_erp_v1_202608/docs"

	"mfg_erp_v1_202608/internal/controller"
	"mfg_erp_v1_202608/internal/middleware"
)

// Controllers 路由需要的全部控制器
type Controllers struct {
	Pricing   *controller.PricingController
	Client    *controller.ClientController
	Order     *controller.OrderController
	Recalc    *controller.RecalcController
	Accessory *controller.AccessoryController
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())

	// Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		// 系统定价默认值
		pricing := api.Group("/pricing")
		{
			pricing.GET("/defaults", ctls.Pricing.GetDefaults)
			pricing.PUT("/defaults", ctls.Pricing.UpdateDefaults)
		}

		// 客户与客户级覆盖
		clients := api.Group("/clients")
		{
			clients.POST("", ctls.Client.CreateClient)
			clients.GET("/:id/pricing", ctls.Client.GetClientPricing)
			clients.PUT("/:id/pricing", ctls.Client.UpdateClientPricing)
		}

		// 订单与订单级利润率
		orders := api.Group("/orders")
		{
			orders.POST("", ctls.Order.CreateOrder)
			orders.GET("", ctls.Order.ListOrders)
			orders.GET("/:id", ctls.Order.GetOrder)
			orders.GET("/:id/pricing", ctls.Order.GetOrderPricing)
			orders.PUT("/:id/margin", ctls.Order.UpdateOrderMargin)
			// 批量重算是重操作，按订单维度加冷却
			orders.POST("/:id/recalculate",
				middleware.OrderMutationThrottle(0),
				ctls.Recalc.Recalculate,
			)
		}

		// 产品行：工厂报价 / 产品级覆盖 / 运费合并
		items := api.Group("/line-items")
		{
			items.PUT("/:id/cost", ctls.Order.SubmitManufacturerCost)
			items.PUT("/:id/override", ctls.Order.UpdateItemOverride)
			items.PUT("/:id/shipping-link", ctls.Order.UpdateShippingLink)
		}

		// 辅料库存
		accessories := api.Group("/accessories")
		{
			accessories.POST("", ctls.Accessory.CreateAccessory)
			accessories.GET("", ctls.Accessory.ListAccessories)
			accessories.PUT("/:id/cost", ctls.Accessory.UpdateAccessoryCost)
		}
	}

	return r
}

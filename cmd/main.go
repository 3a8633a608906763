package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mfg_erp_v1_202608/internal/controller"
	"mfg_erp_v1_202608/internal/model"
	"mfg_erp_v1_202608/internal/repository"
	"mfg_erp_v1_202608/internal/router"
	"mfg_erp_v1_202608/internal/service"
	"mfg_erp_v1_202608/internal/task"
	"mfg_erp_v1_202608/pkg/database"
	"mfg_erp_v1_202608/pkg/notify"
	"mfg_erp_v1_202608/pkg/utils"
)

func main() {
	// 1. 加载环境变量
	if err := godotenv.Load(); err != nil {
		logrus.Warn("未找到 .env 文件，使用系统环境变量")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 2. 初始化数据库
	db := initDatabase()

	// 3. 初始化依赖
	deps := initDependencies(db)

	// 4. 启动定时任务
	initTasks(deps)

	// 5. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 6. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	PricingSetting repository.PricingSettingRepository
	Client         repository.ClientRepository
	Order          repository.OrderRepository
	OrderMargin    repository.OrderMarginRepository
	LineItem       repository.LineItemRepository
	Accessory      repository.AccessoryRepository
}

// Services 服务集合
type Services struct {
	PricingSetting *service.PricingSettingService
	Margin         *service.MarginService
	Client         *service.ClientService
	Order          *service.OrderService
	ShippingLink   *service.ShippingLinkService
	Recalc         *service.RecalcService
	Accessory      *service.AccessoryService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=mfg_erp port=5432 sslmode=disable")
	return database.InitDB(dsn,
		// Pricing
		&model.PricingSetting{},
		// Client & Manufacturer
		&model.Client{}, &model.Manufacturer{},
		// Order
		&model.Order{}, &model.OrderMargin{}, &model.LineItem{},
		// Accessory
		&model.AccessoryInventory{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		PricingSetting: repository.NewPricingSettingRepository(db),
		Client:         repository.NewClientRepository(db),
		Order:          repository.NewOrderRepository(db),
		OrderMargin:    repository.NewOrderMarginRepository(db),
		LineItem:       repository.NewLineItemRepository(db),
		Accessory:      repository.NewAccessoryRepository(db),
	}

	// -------- 事件通知 --------
	// NOTIFY_WEBHOOK_URL 为空时内部退化为 Nop 实现
	notifier := notify.NewWebhookNotifier(getEnv("NOTIFY_WEBHOOK_URL", ""))

	// -------- 业务服务 --------
	services := &Services{}
	services.PricingSetting = service.NewPricingSettingService(repos.PricingSetting, utils.NewTTLCache())
	services.Margin = service.NewMarginService(services.PricingSetting, repos.Client, repos.OrderMargin)
	services.Client = service.NewClientService(repos.Client)
	services.Order = service.NewOrderService(repos.Order, repos.LineItem, repos.OrderMargin, services.Margin)
	services.ShippingLink = service.NewShippingLinkService(repos.LineItem, notifier)
	services.Recalc = service.NewRecalcService(repos.Order, repos.LineItem, repos.Accessory, services.Margin, notifier)
	services.Accessory = service.NewAccessoryService(repos.Accessory, services.PricingSetting)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Pricing:   controller.NewPricingController(services.PricingSetting),
		Client:    controller.NewClientController(services.Client),
		Order:     controller.NewOrderController(services.Order, services.ShippingLink),
		Recalc:    controller.NewRecalcController(services.Recalc),
		Accessory: controller.NewAccessoryController(services.Accessory),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	if getEnv("PRICE_AUDIT_CRON_ENABLED", "true") != "true" {
		logrus.Info("夜间价格核对任务已关闭")
		return
	}

	// 夜间价格核对
	auditTask := task.NewPriceAuditTask(
		deps.Repos.Order,
		deps.Repos.LineItem,
		deps.Services.Margin,
	)
	auditTask.Start()

	logrus.Info("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		logrus.Infof("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("正在关闭服务...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("服务强制关闭: %v", err)
	}

	logrus.Info("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

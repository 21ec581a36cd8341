package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fulfillment-system/internal/controllers"
	"fulfillment-system/internal/repositories"
	"fulfillment-system/internal/services"
	"fulfillment-system/pkg/config"
	"fulfillment-system/pkg/eventbus"
	"fulfillment-system/pkg/middleware"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, bus *eventbus.Bus, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: wiring routes")

	api := e.Group("/api", middleware.ActorMiddleware(), middleware.RequestLogger(logger))
	txManager := repositories.NewTxManager(dbConn)

	// --- repositories ---
	orderRepo := repositories.NewOrderRepository(dbConn, logger)
	statusLogRepo := repositories.NewStatusLogRepository(dbConn)
	commercialRepo := repositories.NewCommercialRepository(dbConn, logger)
	shipmentRepo := repositories.NewShipmentRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- services ---
	orderService := services.NewOrderService(orderRepo, statusLogRepo, logger)
	engine := services.NewStatusEngine(txManager, orderRepo, statusLogRepo, commercialRepo, bus, logger)
	scorer := services.NewPriorityScorer(cfg.Queue.CriticalDays, cfg.Queue.WarningDays)
	queueService := services.NewQueueService(orderRepo, cacheRepo, scorer, cfg.Queue.CacheTTL, bus, logger)
	reportService := services.NewReportService(queueService, logger)
	shipmentService := services.NewShipmentService(shipmentRepo, orderRepo, logger)
	verifier := services.NewShipmentVerifier(shipmentRepo, engine, logger)

	// --- controllers ---
	orderController := controllers.NewOrderController(orderService, engine, shipmentService, logger)
	queueController := controllers.NewQueueController(queueService, logger)
	reportController := controllers.NewReportController(reportService, logger)
	shipmentController := controllers.NewShipmentController(shipmentService, verifier, logger)

	runOrderRouter(api, orderController)
	runQueueRouter(api, queueController, reportController)
	runShipmentRouter(api, shipmentController)

	logger.Info("InitRouter: routes registered")
}

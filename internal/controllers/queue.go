package controllers

import (
	"net/http"

	"fulfillment-system/internal/services"
	"fulfillment-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type QueueController struct {
	queueService services.QueueServiceInterface
	logger       *zap.Logger
}

func NewQueueController(queueService services.QueueServiceInterface, logger *zap.Logger) *QueueController {
	return &QueueController{queueService: queueService, logger: logger}
}

func (c *QueueController) GetQueue(ctx echo.Context) error {
	entries, err := c.queueService.GetQueue(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entries, "production queue", http.StatusOK, uint64(len(entries)))
}

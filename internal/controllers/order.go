package controllers

import (
	"context"
	"net/http"
	"strconv"

	"fulfillment-system/internal/dto"
	"fulfillment-system/internal/services"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OrderController struct {
	orderService    services.OrderServiceInterface
	engine          services.StatusEngineInterface
	shipmentService services.ShipmentServiceInterface
	logger          *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	engine services.StatusEngineInterface,
	shipmentService services.ShipmentServiceInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService:    orderService,
		engine:          engine,
		shipmentService: shipmentService,
		logger:          logger,
	}
}

func (c *OrderController) orderID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid order id", err,
			map[string]interface{}{"param": ctx.Param("id")})
	}
	return id, nil
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	params := utils.ParseQuery(ctx.Request().URL.Query())

	orders, total, err := c.orderService.GetOrders(reqCtx, params)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "orders listed", http.StatusOK, total)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	order, err := c.orderService.FindOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "order found", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	var body dto.CreateOrderDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := c.orderService.CreateOrder(ctx.Request().Context(), body)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{"id": id}, "order created", http.StatusCreated)
}

func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var body dto.UpdateOrderDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.orderService.UpdateOrder(ctx.Request().Context(), id, body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "order updated", http.StatusOK)
}

func (c *OrderController) DeleteOrder(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.orderService.SoftDeleteOrder(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "order deleted", http.StatusOK)
}

func (c *OrderController) GetHistory(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entries, err := c.orderService.GetHistory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entries, "status history", http.StatusOK)
}

func (c *OrderController) GetLabel(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload, err := c.orderService.EncodeLabel(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"payload": payload}, "label payload", http.StatusOK)
}

func (c *OrderController) ReconcileLabel(ctx echo.Context) error {
	var body dto.ReconcileRequestDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.orderService.ReconcileLabel(ctx.Request().Context(), body.Payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "label reconciled", http.StatusOK)
}

// --- transition endpoints ---

func (c *OrderController) AcceptPayment(ctx echo.Context) error {
	return c.simpleTransition(ctx, c.engine.AcceptPayment)
}

func (c *OrderController) StartProduction(ctx echo.Context) error {
	return c.simpleTransition(ctx, c.engine.StartProduction)
}

func (c *OrderController) MarkDelivered(ctx echo.Context) error {
	return c.simpleTransition(ctx, c.engine.MarkDelivered)
}

func (c *OrderController) simpleTransition(ctx echo.Context, fn func(reqCtx context.Context, orderID int64, comment string) error) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var body dto.TransitionDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := fn(ctx.Request().Context(), id, body.Comment); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "status updated", http.StatusOK)
}

func (c *OrderController) AdvanceStage(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var body dto.AdvanceStageDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.engine.AdvanceProductionStage(ctx.Request().Context(), id, body.NextStage, body.Comment); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "production stage updated", http.StatusOK)
}

// FinishProduction records the declared package count, optionally persists
// the per-package detail, and moves the order to READY_TO_SHIP.
func (c *OrderController) FinishProduction(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var body dto.FinishProductionDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	if err := c.engine.FinishProduction(reqCtx, id, body.PackagesCount, body.Comment); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.shipmentService.DeclarePackages(reqCtx, id, body.Packages); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "production finished", http.StatusOK)
}

func (c *OrderController) Cancel(ctx echo.Context) error {
	id, err := c.orderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var body dto.CancelOrderDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.engine.Cancel(ctx.Request().Context(), id, body.Comment); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "order cancelled", http.StatusOK)
}

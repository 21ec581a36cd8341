package controllers

import (
	"net/http"
	"strconv"

	"fulfillment-system/internal/dto"
	"fulfillment-system/internal/services"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ShipmentController struct {
	shipmentService services.ShipmentServiceInterface
	verifier        services.ShipmentVerifierInterface
	logger          *zap.Logger
}

func NewShipmentController(
	shipmentService services.ShipmentServiceInterface,
	verifier services.ShipmentVerifierInterface,
	logger *zap.Logger,
) *ShipmentController {
	return &ShipmentController{shipmentService: shipmentService, verifier: verifier, logger: logger}
}

func (c *ShipmentController) GetShipment(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid order id", err, nil), c.logger)
	}
	shipment, err := c.shipmentService.GetShipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, shipment, "shipment found", http.StatusOK)
}

func (c *ShipmentController) SelectShipment(ctx echo.Context) error {
	var body dto.ScanDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	shipment, err := c.verifier.SelectShipment(ctx.Request().Context(), body.Code)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, services.ShipmentToDTO(shipment), "shipment selected", http.StatusOK)
}

func (c *ShipmentController) RecordScan(ctx echo.Context) error {
	var body dto.ScanDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.verifier.RecordScan(ctx.Request().Context(), body.Code)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, scanResultToDTO(result), "scan recorded", http.StatusOK)
}

func (c *ShipmentController) ManualAdjust(ctx echo.Context) error {
	var body dto.ManualAdjustDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.verifier.ManualAdjust(ctx.Request().Context(), body.Delta)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, scanResultToDTO(result), "count adjusted", http.StatusOK)
}

func (c *ShipmentController) Abandon(ctx echo.Context) error {
	c.verifier.Abandon()
	return utils.SuccessResponse(ctx, nil, "verification abandoned", http.StatusOK)
}

func (c *ShipmentController) ConfirmDispatch(ctx echo.Context) error {
	var body dto.ConfirmShipmentDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.verifier.ConfirmDispatch(ctx.Request().Context(), body.CarrierCompany, body.TrackingNumber); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "dispatch confirmed", http.StatusOK)
}

func scanResultToDTO(r *services.ScanResult) dto.ScanResultDTO {
	return dto.ScanResultDTO{
		Shipment:     services.ShipmentToDTO(r.Shipment),
		Accepted:     r.Accepted,
		Saturated:    r.Saturated,
		AutoSelected: r.AutoSelected,
	}
}

package services

import (
	"context"
	"errors"
	"time"

	"fulfillment-system/internal/dto"
	"fulfillment-system/internal/entities"
	"fulfillment-system/internal/repositories"
	"fulfillment-system/pkg/constants"
	apperrors "fulfillment-system/pkg/errors"
	"fulfillment-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"
const timestampLayout = "2006-01-02 15:04:05"

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, params utils.QueryParams) ([]dto.OrderDTO, uint64, error)
	FindOrder(ctx context.Context, id int64) (*dto.OrderDTO, error)
	CreateOrder(ctx context.Context, data dto.CreateOrderDTO) (int64, error)
	UpdateOrder(ctx context.Context, id int64, data dto.UpdateOrderDTO) error
	SoftDeleteOrder(ctx context.Context, id int64) error
	GetHistory(ctx context.Context, orderID int64) ([]dto.StatusLogEntryDTO, error)
	EncodeLabel(ctx context.Context, orderID int64) (string, error)
	ReconcileLabel(ctx context.Context, payload string) (*dto.ReconcileResultDTO, error)
}

type OrderService struct {
	orderRepo     repositories.OrderRepositoryInterface
	statusLogRepo repositories.StatusLogRepositoryInterface
	logger        *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	statusLogRepo repositories.StatusLogRepositoryInterface,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:     orderRepo,
		statusLogRepo: statusLogRepo,
		logger:        logger,
	}
}

// ValidateForProduction collects every missing commercial field in one
// pass. Read access is never blocked by these; only the production start
// (and save-with-lock) is.
func ValidateForProduction(order *entities.Order) []string {
	var missing []string
	if order.CustomerName == "" {
		missing = append(missing, "customer name is required")
	}
	if order.DeliveryRegion == "" {
		missing = append(missing, "delivery region is required")
	}
	if !order.AdminCode.Valid || order.AdminCode.String == "" {
		missing = append(missing, "admin code is required")
	}
	if len(order.Lines) == 0 {
		missing = append(missing, "at least one order line is required")
	}
	return missing
}

func linesFromDTO(lines []dto.OrderLineDTO) []entities.OrderLine {
	out := make([]entities.OrderLine, 0, len(lines))
	for i, l := range lines {
		out = append(out, entities.OrderLine{
			Position: i + 1,
			Quantity: l.Quantity,
			Width:    l.Width,
			Height:   l.Height,
			Material: l.Material,
			Color:    l.Color,
			Note:     l.Note,
		})
	}
	return out
}

func linesToDTO(lines []entities.OrderLine) []dto.OrderLineDTO {
	out := make([]dto.OrderLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.OrderLineDTO{
			Quantity: l.Quantity,
			Width:    l.Width,
			Height:   l.Height,
			Material: l.Material,
			Color:    l.Color,
			Note:     l.Note,
		})
	}
	return out
}

func orderToDTO(o *entities.Order) *dto.OrderDTO {
	out := &dto.OrderDTO{
		ID:                          o.ID,
		OrderNumber:                 o.OrderNumber,
		AdminCode:                   o.AdminCode,
		CustomerName:                o.CustomerName,
		CompanyName:                 o.CompanyName,
		DeliveryRegion:              o.DeliveryRegion,
		DeliveryAddress:             o.DeliveryAddress,
		QuantityTotal:               o.QuantityTotal,
		Status:                      o.Status,
		PackagesCount:               o.PackagesCount,
		ScannedPackages:             o.ScannedPackages,
		NeedsShippingValidation:     o.NeedsShippingValidation,
		ShippingNotificationPending: o.ShippingNotificationPending,
		CarrierCompany:              o.CarrierCompany,
		TrackingNumber:              o.TrackingNumber,
		Lines:                       linesToDTO(o.Lines),
	}
	if o.DeliveryDate.Valid {
		out.DeliveryDate = o.DeliveryDate.Time.Format(dateLayout)
	}
	if o.DueDate.Valid {
		out.DueDate = o.DueDate.Time.Format(dateLayout)
	}
	if o.ProcessStartAt.Valid {
		out.ProcessStartAt = o.ProcessStartAt.Time.Local().Format(timestampLayout)
	}
	if o.CreatedAt != nil {
		out.CreatedAt = o.CreatedAt.Local().Format(timestampLayout)
	}
	if o.UpdatedAt != nil {
		out.UpdatedAt = o.UpdatedAt.Local().Format(timestampLayout)
	}
	return out
}

func (s *OrderService) GetOrders(ctx context.Context, params utils.QueryParams) ([]dto.OrderDTO, uint64, error) {
	orders, total, err := s.orderRepo.GetOrders(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToDTO(&orders[i]))
	}
	return out, total, nil
}

func (s *OrderService) FindOrder(ctx context.Context, id int64) (*dto.OrderDTO, error) {
	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToDTO(order), nil
}

func (s *OrderService) CreateOrder(ctx context.Context, data dto.CreateOrderDTO) (int64, error) {
	order := &entities.Order{
		OrderNumber:     data.OrderNumber,
		CustomerName:    data.CustomerName,
		DeliveryRegion:  data.DeliveryRegion,
		DeliveryAddress: data.DeliveryAddress,
		Status:          constants.StatusPendingPayment,
		Lines:           linesFromDTO(data.Lines),
	}
	if data.AdminCode != nil {
		order.AdminCode = null.StringFrom(*data.AdminCode)
	}
	if data.CompanyName != nil {
		order.CompanyName = null.StringFrom(*data.CompanyName)
	}
	if data.DeliveryDate != nil {
		d, err := time.Parse(dateLayout, *data.DeliveryDate)
		if err != nil {
			return 0, apperrors.NewInvalidInputError("invalid delivery date %q, expected YYYY-MM-DD", *data.DeliveryDate)
		}
		order.DeliveryDate = null.TimeFrom(d)
	}

	id, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("failed to create order", zap.String("order_number", data.OrderNumber), zap.Error(err))
		return 0, err
	}
	return id, nil
}

// UpdateOrder applies commercial edits. Lines, when present, replace the
// stored list wholesale; quantity_total is recomputed, never hand-edited.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, data dto.UpdateOrderDTO) error {
	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return err
	}
	if constants.IsFinalStatus(order.Status) {
		return apperrors.NewInvalidInputError("order %s is archived and read-only", order.OrderNumber)
	}

	if data.AdminCode != nil {
		order.AdminCode = null.StringFrom(*data.AdminCode)
	}
	if data.CustomerName != nil {
		order.CustomerName = *data.CustomerName
	}
	if data.CompanyName != nil {
		order.CompanyName = null.StringFrom(*data.CompanyName)
	}
	if data.DeliveryRegion != nil {
		order.DeliveryRegion = *data.DeliveryRegion
	}
	if data.DeliveryAddress != nil {
		order.DeliveryAddress = *data.DeliveryAddress
	}
	if data.DeliveryDate != nil {
		d, err := time.Parse(dateLayout, *data.DeliveryDate)
		if err != nil {
			return apperrors.NewInvalidInputError("invalid delivery date %q, expected YYYY-MM-DD", *data.DeliveryDate)
		}
		order.DeliveryDate = null.TimeFrom(d)
	}

	replaceLines := data.Lines != nil
	if replaceLines {
		order.Lines = linesFromDTO(data.Lines)
	}
	return s.orderRepo.UpdateOrder(ctx, order, replaceLines)
}

func (s *OrderService) SoftDeleteOrder(ctx context.Context, id int64) error {
	return s.orderRepo.SoftDeleteOrder(ctx, id)
}

func (s *OrderService) GetHistory(ctx context.Context, orderID int64) ([]dto.StatusLogEntryDTO, error) {
	entries, err := s.statusLogRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StatusLogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StatusLogEntryDTO{
			ID:        e.ID,
			OrderID:   e.OrderID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Comment:   e.Comment,
			Actor:     e.Actor,
			ChangedAt: e.ChangedAt.Local().Format(timestampLayout),
		})
	}
	return out, nil
}

func (s *OrderService) EncodeLabel(ctx context.Context, orderID int64) (string, error) {
	order, err := s.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return EncodeQR(order), nil
}

// ReconcileLabel decodes a scanned payload and compares it against the
// authoritative record resolved by the decoded order number.
func (s *OrderService) ReconcileLabel(ctx context.Context, payload string) (*dto.ReconcileResultDTO, error) {
	decoded := DecodeQR(payload)
	result := &dto.ReconcileResultDTO{
		IsLegacyFormat:    decoded.IsLegacyFormat,
		Discrepancies:     []string{},
		LineDiscrepancies: []dto.LineDiscrepancyDTO{},
	}

	if decoded.OrderNumber == "" {
		result.IsValid = false
		result.Discrepancies = append(result.Discrepancies, "payload carries no order number")
		return result, nil
	}

	order, err := s.orderRepo.FindByOrderNumber(ctx, decoded.OrderNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			result.IsValid = false
			result.Discrepancies = append(result.Discrepancies, "no order matches the scanned label")
			return result, nil
		}
		return nil, err
	}

	reconciled := ReconcileQR(decoded, order)
	result.IsValid = reconciled.IsValid
	result.Discrepancies = append(result.Discrepancies, reconciled.Discrepancies...)
	for _, ld := range reconciled.LineDiscrepancies {
		result.LineDiscrepancies = append(result.LineDiscrepancies, dto.LineDiscrepancyDTO{
			Position: ld.Position,
			Field:    ld.Field,
			Expected: ld.Expected,
			Scanned:  ld.Scanned,
		})
	}
	result.OrderID = order.ID
	result.OrderNumber = order.OrderNumber
	return result, nil
}

package services

import (
	"context"
	"fmt"

	"fulfillment-system/internal/dto"
	"fulfillment-system/internal/entities"
	"fulfillment-system/internal/repositories"

	"go.uber.org/zap"
)

type ShipmentServiceInterface interface {
	GetShipment(ctx context.Context, orderID int64) (*dto.ShipmentDTO, error)
	DeclarePackages(ctx context.Context, orderID int64, packages []dto.CreatePackageDTO) error
}

// ShipmentService assembles the shipping-side view of an order, including
// the declared-units completeness check.
type ShipmentService struct {
	shipmentRepo repositories.ShipmentRepositoryInterface
	orderRepo    repositories.OrderRepositoryInterface
	logger       *zap.Logger
}

func NewShipmentService(
	shipmentRepo repositories.ShipmentRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) ShipmentServiceInterface {
	return &ShipmentService{shipmentRepo: shipmentRepo, orderRepo: orderRepo, logger: logger}
}

func ShipmentToDTO(s *entities.Shipment) dto.ShipmentDTO {
	return dto.ShipmentDTO{
		OrderID:         s.OrderID,
		OrderNumber:     s.OrderNumber,
		Status:          s.Status,
		CarrierCompany:  s.CarrierCompany,
		TrackingNumber:  s.TrackingNumber,
		PackagesCount:   s.PackagesCount,
		ScannedPackages: s.ScannedPackages,
		IsComplete:      s.PackagesCount > 0 && s.ScannedPackages >= s.PackagesCount,
	}
}

func (s *ShipmentService) GetShipment(ctx context.Context, orderID int64) (*dto.ShipmentDTO, error) {
	shipment, err := s.shipmentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := ShipmentToDTO(shipment)

	// The units check is informational: a mismatch between declared package
	// units and the ordered quantity is surfaced, never enforced.
	order, err := s.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	packages, err := s.shipmentRepo.ListPackages(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(packages) > 0 {
		if units := entities.UnitsTotal(packages); units != order.QuantityTotal {
			out.UnitsWarning = fmt.Sprintf("declared package units (%d) differ from ordered quantity (%d)", units, order.QuantityTotal)
		}
	}
	return &out, nil
}

func (s *ShipmentService) DeclarePackages(ctx context.Context, orderID int64, packages []dto.CreatePackageDTO) error {
	if len(packages) == 0 {
		return nil
	}
	out := make([]entities.Package, 0, len(packages))
	for _, p := range packages {
		out = append(out, entities.Package{
			OrderID:    orderID,
			Sequence:   p.Sequence,
			UnitsCount: p.UnitsCount,
			Weight:     p.Weight,
			Width:      p.Width,
			Height:     p.Height,
			Depth:      p.Depth,
		})
	}
	return s.shipmentRepo.CreatePackages(ctx, orderID, out)
}

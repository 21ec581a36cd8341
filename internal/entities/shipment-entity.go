package entities

import (
	"time"

	"fulfillment-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

// Shipment is the shipping-side view of an order: the declared package
// total, the persisted scan progress and the dispatch identifiers.
type Shipment struct {
	OrderID         int64       `json:"order_id"`
	OrderNumber     string      `json:"order_number"`
	Status          string      `json:"status"`
	CarrierCompany  null.String `json:"carrier_company"`
	TrackingNumber  null.String `json:"tracking_number"`
	PackagesCount   int         `json:"packages_count"`
	ScannedPackages int         `json:"scanned_packages"`
	ShippedAt       null.Time   `json:"shipped_at"`
	CreatedAt       time.Time   `json:"created_at"`
}

// InTransit reports whether the shipment already left the warehouse.
func (s *Shipment) InTransit() bool {
	return s.Status == constants.StatusShipped || s.Status == constants.StatusDelivered
}

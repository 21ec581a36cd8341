package dto

import "github.com/aarondl/null/v8"

type CreatePackageDTO struct {
	Sequence   int     `json:"sequence" validate:"required,gt=0"`
	UnitsCount int     `json:"units_count" validate:"required,gt=0"`
	Weight     float64 `json:"weight" validate:"gte=0"`
	Width      float64 `json:"width" validate:"gte=0"`
	Height     float64 `json:"height" validate:"gte=0"`
	Depth      float64 `json:"depth" validate:"gte=0"`
}

type ShipmentDTO struct {
	OrderID         int64       `json:"order_id"`
	OrderNumber     string      `json:"order_number"`
	Status          string      `json:"status"`
	CarrierCompany  null.String `json:"carrier_company"`
	TrackingNumber  null.String `json:"tracking_number"`
	PackagesCount   int         `json:"packages_count"`
	ScannedPackages int         `json:"scanned_packages"`
	IsComplete      bool        `json:"is_complete"`
	// UnitsWarning is set when the sum of declared package units differs
	// from the order quantity; informational only.
	UnitsWarning string `json:"units_warning,omitempty"`
}

type ScanDTO struct {
	Code string `json:"code" validate:"required"`
}

type ManualAdjustDTO struct {
	Delta int `json:"delta" validate:"required"`
}

type ScanResultDTO struct {
	Shipment     ShipmentDTO `json:"shipment"`
	Accepted     bool        `json:"accepted"`
	Saturated    bool        `json:"saturated"`
	AutoSelected bool        `json:"auto_selected"`
}

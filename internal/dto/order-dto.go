package dto

import "github.com/aarondl/null/v8"

type OrderLineDTO struct {
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Width    float64 `json:"width" validate:"gte=0"`
	Height   float64 `json:"height" validate:"gte=0"`
	Material string  `json:"material" validate:"required"`
	Color    string  `json:"color,omitempty"`
	Note     string  `json:"note,omitempty"`
}

type CreateOrderDTO struct {
	OrderNumber     string         `json:"order_number" validate:"required,order_number"`
	AdminCode       *string        `json:"admin_code,omitempty"`
	CustomerName    string         `json:"customer_name" validate:"required,min=2,max=255"`
	CompanyName     *string        `json:"company_name,omitempty"`
	DeliveryRegion  string         `json:"delivery_region" validate:"omitempty,delivery_region"`
	DeliveryAddress string         `json:"delivery_address" validate:"omitempty,min=5"`
	DeliveryDate    *string        `json:"delivery_date,omitempty"`
	Lines           []OrderLineDTO `json:"lines" validate:"omitempty,dive"`
}

type UpdateOrderDTO struct {
	AdminCode       *string        `json:"admin_code,omitempty"`
	CustomerName    *string        `json:"customer_name,omitempty" validate:"omitempty,min=2,max=255"`
	CompanyName     *string        `json:"company_name,omitempty"`
	DeliveryRegion  *string        `json:"delivery_region,omitempty" validate:"omitempty,delivery_region"`
	DeliveryAddress *string        `json:"delivery_address,omitempty" validate:"omitempty,min=5"`
	DeliveryDate    *string        `json:"delivery_date,omitempty"`
	Lines           []OrderLineDTO `json:"lines,omitempty" validate:"omitempty,dive"`
}

type OrderDTO struct {
	ID                          int64          `json:"id"`
	OrderNumber                 string         `json:"order_number"`
	AdminCode                   null.String    `json:"admin_code"`
	CustomerName                string         `json:"customer_name"`
	CompanyName                 null.String    `json:"company_name"`
	DeliveryRegion              string         `json:"delivery_region"`
	DeliveryAddress             string         `json:"delivery_address"`
	DeliveryDate                string         `json:"delivery_date,omitempty"`
	QuantityTotal               int            `json:"quantity_total"`
	Status                      string         `json:"status"`
	ProcessStartAt              string         `json:"process_start_at,omitempty"`
	DueDate                     string         `json:"due_date,omitempty"`
	PackagesCount               int            `json:"packages_count"`
	ScannedPackages             int            `json:"scanned_packages"`
	NeedsShippingValidation     bool           `json:"needs_shipping_validation"`
	ShippingNotificationPending bool           `json:"shipping_notification_pending"`
	CarrierCompany              null.String    `json:"carrier_company"`
	TrackingNumber              null.String    `json:"tracking_number"`
	Lines                       []OrderLineDTO `json:"lines"`
	CreatedAt                   string         `json:"created_at"`
	UpdatedAt                   string         `json:"updated_at,omitempty"`
}

type OrderListResponseDTO struct {
	List       []OrderDTO `json:"list"`
	TotalCount uint64     `json:"total_count"`
}

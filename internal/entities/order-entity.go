package entities

import (
	"strings"
	"time"

	"fulfillment-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// Order is the unit of work. Commercial, production and shipping attribute
// clusters live on one logical entity even though each domain only writes
// its own cluster during its active phase.
type Order struct {
	ID          int64       `json:"id"`
	OrderNumber string      `json:"order_number"`
	AdminCode   null.String `json:"admin_code"`
	// CommercialOrderID links to the independently-keyed commercial record.
	// NULL on rows created before the link existed; those mirror by order
	// number instead.
	CommercialOrderID null.Int64 `json:"commercial_order_id"`

	// Commercial
	CustomerName    string      `json:"customer_name"`
	CompanyName     null.String `json:"company_name"`
	DeliveryRegion  string      `json:"delivery_region"`
	DeliveryAddress string      `json:"delivery_address"`
	DeliveryDate    null.Time   `json:"delivery_date"`
	QuantityTotal   int         `json:"quantity_total"`
	Lines           []OrderLine `json:"lines"`

	// Production
	Status                  string    `json:"status"`
	ProcessStartAt          null.Time `json:"process_start_at"`
	DueDate                 null.Time `json:"due_date"`
	PackagesCount           int       `json:"packages_count"`
	NeedsShippingValidation bool      `json:"needs_shipping_validation"`

	// Shipping
	CarrierCompany              null.String `json:"carrier_company"`
	TrackingNumber              null.String `json:"tracking_number"`
	ScannedPackages             int         `json:"scanned_packages"`
	ShippedAt                   null.Time   `json:"shipped_at"`
	ShippingNotificationPending bool        `json:"shipping_notification_pending"`

	types.BaseEntity
	types.SoftDelete
}

// OrderLine is one cut/piece specification. Lines carry no identity beyond
// their position; edits replace the whole list.
type OrderLine struct {
	Position int     `json:"position"`
	Quantity int     `json:"quantity"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Material string  `json:"material"`
	Color    string  `json:"color"`
	Note     string  `json:"note"`
}

// RecomputeQuantityTotal restores the invariant that quantity_total equals
// the sum of line quantities. Called after every line-list mutation.
func (o *Order) RecomputeQuantityTotal() {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	o.QuantityTotal = total
}

// PrimaryMaterial is the material of the first line, the one used for
// same-material batching on the cutting queue.
func (o *Order) PrimaryMaterial() string {
	if len(o.Lines) == 0 {
		return ""
	}
	return o.Lines[0].Material
}

// MaterialSummary concatenates the distinct line materials in line order.
// The same summary is embedded in the QR payload.
func (o *Order) MaterialSummary() string {
	seen := make(map[string]bool)
	var materials []string
	for _, line := range o.Lines {
		if line.Material == "" || seen[line.Material] {
			continue
		}
		seen[line.Material] = true
		materials = append(materials, line.Material)
	}
	return strings.Join(materials, ",")
}

// ColorSummary concatenates the distinct line colors in line order.
func (o *Order) ColorSummary() string {
	seen := make(map[string]bool)
	var colors []string
	for _, line := range o.Lines {
		if line.Color == "" || seen[line.Color] {
			continue
		}
		seen[line.Color] = true
		colors = append(colors, line.Color)
	}
	return strings.Join(colors, ",")
}

// CustomerOrCompany prefers the company name on the printed label when one
// is present.
func (o *Order) CustomerOrCompany() string {
	if o.CompanyName.Valid && o.CompanyName.String != "" {
		return o.CompanyName.String
	}
	return o.CustomerName
}

// DaysRemaining is the calendar-day difference between the due date and now.
// NoDueDateSentinel is returned when no due date is set; such orders sort
// last within their priority tier.
const NoDueDateSentinel = 999

func (o *Order) DaysRemaining(now time.Time) int {
	if !o.DueDate.Valid {
		return NoDueDateSentinel
	}
	due := o.DueDate.Time
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(nowDay).Hours() / 24)
}

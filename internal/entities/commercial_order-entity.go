package entities

import (
	"fulfillment-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// CommercialOrder is the independently-owned commercial acceptance record.
// The production domain mirrors status changes into it one-way
// (production -> commercial); the reverse direction never writes.
type CommercialOrder struct {
	ID           int64       `json:"id"`
	OrderNumber  string      `json:"order_number"`
	Status       string      `json:"status"`
	CustomerName string      `json:"customer_name"`
	AdminCode    null.String `json:"admin_code"`

	types.BaseEntity
}

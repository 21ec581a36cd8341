package entities

import "fulfillment-system/pkg/types"

// Package is one physical parcel belonging to exactly one order's shipment.
type Package struct {
	ID         int64   `json:"id"`
	OrderID    int64   `json:"order_id"`
	Sequence   int     `json:"sequence"`
	UnitsCount int     `json:"units_count"`
	Weight     float64 `json:"weight"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Depth      float64 `json:"depth"`

	types.BaseEntity
}

// UnitsTotal sums declared units across packages. Compared against the
// order's quantity_total as a completeness check; a mismatch is a warning,
// never a rejection.
func UnitsTotal(packages []Package) int {
	total := 0
	for _, p := range packages {
		total += p.UnitsCount
	}
	return total
}

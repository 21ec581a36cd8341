package services

import (
	"time"

	"fulfillment-system/pkg/constants"
)

// Committed lead times per delivery region, in days. The user-facing label
// says "business days" but the arithmetic has always been plain calendar
// days; changing that silently would shift every existing due date.
const (
	leadTimePeninsula = 10
	leadTimeBaleares  = 7
	leadTimeCanarias  = 20
	leadTimeDefault   = 10
)

// LeadTimeDays returns the committed lead time for a delivery region.
// Unknown or absent regions fall back to the default. Pure and total.
func LeadTimeDays(region string) int {
	switch region {
	case constants.RegionPeninsula:
		return leadTimePeninsula
	case constants.RegionBaleares:
		return leadTimeBaleares
	case constants.RegionCanarias:
		return leadTimeCanarias
	default:
		return leadTimeDefault
	}
}

// DueDate adds the region's lead time to the acceptance timestamp. Computed
// once when production starts; never recomputed afterwards unless the
// region is edited while no due date exists yet.
func DueDate(acceptedAt time.Time, region string) time.Time {
	return acceptedAt.AddDate(0, 0, LeadTimeDays(region))
}

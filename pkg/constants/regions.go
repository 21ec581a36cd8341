package constants

// Delivery regions. Each region carries its own committed lead time.
const (
	RegionPeninsula = "PENINSULA"
	RegionBaleares  = "BALEARES"
	RegionCanarias  = "CANARIAS"
)

var Regions = []string{RegionPeninsula, RegionBaleares, RegionCanarias}

func IsKnownRegion(code string) bool {
	for _, r := range Regions {
		if r == code {
			return true
		}
	}
	return false
}

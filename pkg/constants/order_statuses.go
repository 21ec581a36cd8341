package constants

// Canonical order statuses. These are the only spellings ever stored.
const (
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusPaid           = "PAID"
	StatusCutting        = "CUTTING"
	StatusSewing         = "SEWING"
	StatusUpholstery     = "UPHOLSTERY"
	StatusQualityControl = "QUALITY_CONTROL"
	StatusReadyToShip    = "READY_TO_SHIP"
	StatusShipped        = "SHIPPED"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
)

// Commercial-side mirror statuses written back by the production domain.
const (
	CommercialStatusPendingShipment = "PTE_ENVIO"
	CommercialStatusShipped         = "SHIPPED"
)

// ProductionStatuses are the operator-ordered sub-stages between PAID and
// READY_TO_SHIP.
var ProductionStatuses = []string{
	StatusCutting,
	StatusSewing,
	StatusUpholstery,
	StatusQualityControl,
}

// ActiveStatuses is the "in progress" set ranked by the priority queue.
var ActiveStatuses = []string{
	StatusPaid,
	StatusCutting,
	StatusSewing,
	StatusUpholstery,
	StatusQualityControl,
	StatusReadyToShip,
}

// FinalStatuses are terminal; no transition leaves them.
var FinalStatuses = []string{
	StatusDelivered,
	StatusCancelled,
}

// legacyStatuses maps older spellings still present in existing rows to the
// canonical statuses. Normalization happens at the read boundary only; a
// legacy spelling is never written back.
var legacyStatuses = map[string]string{
	"PTE_PAGO":   StatusPendingPayment,
	"PAGADO":     StatusPaid,
	"EN_PROCESO": StatusCutting,
	"IN_PROCESS": StatusCutting,
	"CORTE":      StatusCutting,
	"COSTURA":    StatusSewing,
	"TAPIZADO":   StatusUpholstery,
	"CONTROL":    StatusQualityControl,
	"PTE_ENVIO":  StatusReadyToShip,
	"ENVIADO":    StatusShipped,
	"ENTREGADO":  StatusDelivered,
	"CANCELADO":  StatusCancelled,
}

// NormalizeStatus resolves a stored status string, legacy or canonical, to
// its canonical spelling. Unknown strings are returned unchanged.
func NormalizeStatus(code string) string {
	if canonical, ok := legacyStatuses[code]; ok {
		return canonical
	}
	return code
}

// The predicates accept legacy spellings so existing rows classify the same
// way as freshly written ones.

func IsFinalStatus(code string) bool {
	return contains(FinalStatuses, NormalizeStatus(code))
}

func IsProductionStatus(code string) bool {
	return contains(ProductionStatuses, NormalizeStatus(code))
}

func IsActiveStatus(code string) bool {
	return contains(ActiveStatuses, NormalizeStatus(code))
}

func contains(set []string, code string) bool {
	for _, s := range set {
		if s == code {
			return true
		}
	}
	return false
}
